package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/search"
	"github.com/cmoore/talon/pkg/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit, in full plies. If zero, there is no
	// limit. Overridden by search options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will
	// not use a transposition table.
	Hash uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v}", o.Depth, o.Hash)
}

// Engine encapsulates game-playing logic, search and evaluation. The static
// evaluator (including any leaf noise) is wired once at construction: unlike
// Depth/Hash, it is not a property that changes across Reset, since
// board.Position carries no state the evaluator depends on.
type Engine struct {
	name, author string

	launcher  searchctl.Launcher
	factory   search.TranspositionTableFactory
	evaluator search.Evaluator
	opts      Options

	b      *board.Board
	tt     search.TranspositionTable
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// New creates an engine. root is the search driving iterative deepening
// (typically a *search.AlphaBeta already wired with its own
// *search.Quiescence and leaf evaluator); evaluator is that same evaluator,
// passed again so the engine can thread it through every search.Context as
// the static-eval term the null-move and internal-iterative-deepening
// pruning decisions need.
func New(ctx context.Context, name, author string, root search.Search, evaluator search.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		name:      name,
		author:    author,
		launcher:  &searchctl.Iterative{Root: root},
		factory:   search.NewTranspositionTable,
		evaluator: evaluator,
	}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

// Board returns a forked board, safe for a caller to read or search from
// concurrently with further engine mutations.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position())
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB", position, e.opts.Depth, e.opts.Hash)

	_, _ = e.haltSearchIfActive(ctx)

	pos, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(pos)

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move selects the given move, usually an opponent move, given in coordinate
// notation (e2e4, e7e8q, ...).
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := board.ResolveMove(e.b.Position(), candidate.From, candidate.To, candidate.Promotion)
	if !ok {
		return fmt.Errorf("invalid move: %v", candidate)
	}
	if !e.b.PushMove(m) {
		return fmt.Errorf("illegal move: %v", m)
	}

	logw.Infof(ctx, "Move %v: %v", m, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze analyzes the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	handle, out := e.launcher.Launch(ctx, e.b.Fork(), e.tt, e.evaluator, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
