package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness for iterative deepening search with
// aspiration windows and shared move-ordering state across depths. See
// DESIGN.md for grounding.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, staticEval search.Evaluator, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, b, tt, staticEval, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, b *board.Board, tt search.TranspositionTable, staticEval search.Evaluator, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	if tt != nil {
		tt.DirtyAll()
	}
	ordering := search.NewOrdering()
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	lastScore := board.Score(0)
	for !h.quit.IsClosed() {
		start := time.Now()

		nodes, score, moves, err := i.searchAspirated(wctx, root, b, tt, staticEval, ordering, depth, lastScore)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}
		lastScore = score

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if md, ok := score.MateDistance(); ok && md != 0 && abs(md) <= depth {
			return // halt: forced mate found within full-width search. Exact result.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// searchAspirated runs root.Search at depth (in full plies) inside a
// narrow window around lastScore, widening alpha/beta in a prescribed
// sequence and re-searching from move 1 on fail-low/fail-high until the
// score lands inside the window or the window has been fully opened to
// [-Inf, Inf].
func (i *Iterative) searchAspirated(ctx context.Context, root search.Search, b *board.Board, tt search.TranspositionTable, staticEval search.Evaluator, ordering *search.Ordering, depth int, lastScore board.Score) (uint64, board.Score, []board.Move, error) {
	steps := []board.Score{search.FirstFailStep, search.SecondFailStep}

	alpha, beta := board.NegInf, board.Inf
	if depth > 1 {
		alpha = lastScore - search.InitialHalfWindow
		beta = lastScore + search.InitialHalfWindow
	}

	lowIdx, highIdx := 0, 0
	for {
		sctx := &search.Context{Alpha: alpha, Beta: beta, TT: tt, Eval: staticEval, Ordering: ordering, RootDepth: depth * search.OnePly}
		nodes, score, moves, err := root.Search(ctx, sctx, b, depth*search.OnePly)
		if err != nil {
			return nodes, score, moves, err
		}

		if score <= alpha && alpha > board.NegInf {
			if lowIdx < len(steps) {
				alpha = lastScore - steps[lowIdx]
				lowIdx++
			} else {
				alpha = board.NegInf
			}
			continue
		}
		if score >= beta && beta < board.Inf {
			if highIdx < len(steps) {
				beta = lastScore + steps[highIdx]
				highIdx++
			} else {
				beta = board.Inf
			}
			continue
		}
		return nodes, score, moves, nil
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
