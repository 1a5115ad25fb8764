// Package xboard is a thin driver translating the xboard/WinBoard protocol
// onto pkg/engine.Engine. It owns only line parsing and PV formatting; all
// game logic lives in the engine.
package xboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/engine"
	"github.com/cmoore/talon/pkg/search"
	"github.com/cmoore/talon/pkg/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "xboard"

// Option configures a Driver.
type Option func(*Driver)

// WithBook configures the driver to consult book before launching a search.
func WithBook(book engine.Book) Option {
	return func(d *Driver) {
		d.book = book
	}
}

// Driver implements the xboard/WinBoard line protocol for an Engine.
type Driver struct {
	iox.AsyncCloser

	e    *engine.Engine
	book engine.Book

	out chan<- string

	force bool // force mode: do not move on our own
	post  bool // print thinking output
	side  board.Color

	depthLimit    lang.Optional[uint]
	fixedMoveTime time.Duration
	levelMoves    int
	clock         [board.NumColors]time.Duration

	active atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
		post:        true,
		side:        board.Black,
	}
	for _, fn := range opts {
		fn(d)
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "xboard protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				continue
			}
			cmd, args := parts[0], parts[1:]

			switch cmd {
			case "xboard":
				// No reply required.

			case "protover":
				d.out <- "feature myname=\"talon\" ping=1 setboard=1 analyze=1 colors=0 sigint=0 sigterm=0 san=0 done=1"

			case "accepted", "rejected":
				// Acknowledgement of a feature; nothing to do.

			case "new":
				d.ensureInactive(ctx)
				_ = d.e.Reset(ctx, fen.Initial)
				d.force = false
				d.side = board.Black

			case "variant":
				// Only standard chess is supported; silently ignore.

			case "quit":
				d.ensureInactive(ctx)
				return

			case "force":
				d.ensureInactive(ctx)
				d.force = true

			case "playother":
				d.ensureInactive(ctx)
				d.force = false
				d.side = d.e.Board().Turn().Opponent()

			case "white", "black":
				// Deprecated in modern xboard, but still specified: sets
				// which side the engine is playing next.
				d.side = board.Black
				if cmd == "black" {
					d.side = board.White
				}

			case "go":
				d.force = false
				d.side = d.e.Board().Turn()
				d.think(ctx)

			case "level":
				// "level MOVES TIME INC": MOVES to the next control (0 ==
				// rest of game), TIME the base allotment, INC the per-move
				// increment in seconds. The base allotment and increment
				// are superseded by the "time"/"otim" the GUI sends before
				// each search; only the move count is retained here.
				if len(args) >= 1 {
					moves, _ := strconv.Atoi(args[0])
					d.levelMoves = moves
				}

			case "st":
				if len(args) >= 1 {
					sec, _ := strconv.Atoi(args[0])
					d.fixedMoveTime = time.Duration(sec) * time.Second
				}

			case "sd":
				if len(args) >= 1 {
					depth, _ := strconv.Atoi(args[0])
					d.depthLimit = lang.Some(uint(depth))
				}

			case "sn":
				// Node limits are not modeled; accepted but ignored.

			case "time":
				if len(args) >= 1 {
					cs, _ := strconv.Atoi(args[0])
					d.clock[d.side] = time.Duration(cs) * 10 * time.Millisecond
				}

			case "otim":
				if len(args) >= 1 {
					cs, _ := strconv.Atoi(args[0])
					d.clock[d.side.Opponent()] = time.Duration(cs) * 10 * time.Millisecond
				}

			case "easy", "hard":
				// Pondering is not implemented; accepted but ignored.

			case "post":
				d.post = true
			case "nopost":
				d.post = false

			case "analyze":
				d.ensureInactive(ctx)
				d.analyze(ctx)
			case "exit":
				d.ensureInactive(ctx)

			case "undo":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)

			case "remove":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)
				_ = d.e.TakeBack(ctx)

			case "?":
				_, _ = d.e.Halt(ctx)

			case ".":
				// Progress report: nothing queued to report for a thin driver.

			case "setboard":
				d.ensureInactive(ctx)
				if err := d.e.Reset(ctx, strings.Join(args, " ")); err != nil {
					d.out <- fmt.Sprintf("Illegal position: %v", strings.Join(args, " "))
				}

			case "ping":
				if len(args) >= 1 {
					d.out <- fmt.Sprintf("pong %v", args[0])
				}

			case "name", "rating", "computer", "random", "id", "script":
				// Informational/no-op commands for a thin driver.

			case "bench", "perft", "test", "solution", "avoid", "dump":
				d.out <- fmt.Sprintf("Error (unsupported in this driver): %v", cmd)

			case "eval":
				d.out <- fmt.Sprintf("fen:    %v", d.e.Position())

			case "book":
				d.printBook(ctx)

			default:
				// Assume move if not a recognized command.
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("Illegal move: %v", cmd)
					continue
				}
				if !d.force {
					d.think(ctx)
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	if d.active.CompareAndSwap(true, false) {
		_, _ = d.e.Halt(ctx)
	}
}

// think consults the book, if any, then launches a search and plays its
// best move once found.
func (d *Driver) think(ctx context.Context) {
	if d.book != nil {
		if moves, err := d.book.Find(ctx, d.e.Position()); err == nil && len(moves) > 0 {
			m := moves[0]
			if err := d.e.Move(ctx, m.String()); err == nil {
				d.out <- fmt.Sprintf("move %v", m)
				return
			}
		}
	}

	opt := d.searchOptions()
	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			if d.post {
				d.out <- formatPV(pv)
			}
		}
		if d.active.CompareAndSwap(true, false) && len(last.Moves) > 0 {
			m := last.Moves[0]
			_ = d.e.Move(ctx, m.String())
			d.out <- fmt.Sprintf("move %v", m)
		}
	}()
}

// analyze runs a search without ever playing the resulting move.
func (d *Driver) analyze(ctx context.Context) {
	out, err := d.e.Analyze(ctx, d.searchOptions())
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		for pv := range out {
			if d.post {
				d.out <- formatPV(pv)
			}
		}
		d.active.Store(false)
	}()
}

func (d *Driver) searchOptions() searchctl.Options {
	var opt searchctl.Options
	if v, ok := d.depthLimit.V(); ok {
		opt.DepthLimit = lang.Some(v)
	}
	if d.fixedMoveTime > 0 {
		opt.TimeControl = lang.Some(searchctl.TimeControl{White: d.fixedMoveTime, Black: d.fixedMoveTime, Moves: 1})
	} else if d.clock[board.White] > 0 || d.clock[board.Black] > 0 {
		opt.TimeControl = lang.Some(searchctl.TimeControl{White: d.clock[board.White], Black: d.clock[board.Black], Moves: d.levelMoves})
	}
	return opt
}

func (d *Driver) printBook(ctx context.Context) {
	if d.book == nil {
		d.out <- "No book loaded"
		return
	}
	moves, err := d.book.Find(ctx, d.e.Position())
	if err != nil || len(moves) == 0 {
		d.out <- "No book move"
		return
	}
	d.out <- fmt.Sprintf("Book moves: %v", joinMoves(moves))
}

func formatPV(pv search.PV) string {
	// depth score time(centisec) nodes pv...
	return fmt.Sprintf("%v %v %v %v %v", pv.Depth, centipawns(pv.Score), pv.Time.Milliseconds()/10, pv.Nodes, joinMoves(pv.Moves))
}

func centipawns(s board.Score) int {
	if moves, ok := s.MateDistance(); ok {
		if moves >= 0 {
			return 100000 - moves
		}
		return -100000 - moves
	}
	return int(s)
}

func joinMoves(moves []board.Move) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}

