// Package search contains the move-tree search: transposition table, move
// ordering, quiescence search and the main alpha-beta driver, unified
// throughout on board.Score (see DESIGN.md "Unified score type").
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmoore/talon/pkg/board"
	"go.uber.org/atomic"
)

// ErrHalted is returned by Search/QuietSearch when the context was
// cancelled (Handle.Halt was called) mid-search.
var ErrHalted = errors.New("search halted")

// PV is the principal variation produced by one iterative-deepening depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization, [0;1]
}

func (p PV) String() string {
	parts := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%.0f%% pv=%v",
		p.Depth, p.Score, p.Nodes, p.Time, 100*p.Hash, strings.Join(parts, " "))
}

// Context carries the per-search parameters a Search/QuietSearch call
// needs beyond the board and depth itself.
type Context struct {
	Alpha, Beta board.Score
	TT          TranspositionTable
	Eval        Evaluator // the threaded static evaluator; nil disables static-eval-gated pruning
	Ponder      []board.Move

	// Ordering holds the killer/history tables for this search; shared
	// across the whole iterative-deepening run, not recreated per depth.
	Ordering *Ordering

	// RootDepth is the current iteration's requested depth, in quarter-ply
	// units (OnePly == 4), used to schedule the extensions budget
	// reduction table.
	RootDepth int

	// AvoidNullCount and QuickNullCount are optional diagnostic counters:
	// how many nodes not in check and at or above the null-move depth
	// skipped null-move pruning (a PV node, no non-pawn material, or static
	// eval below beta), and how many accepted a null-move cutoff at or above
	// the verification depth without a confirming real search. In-check and
	// shallower nodes are not counted. Nil unless the caller wants them; read by
	// nothing internally.
	AvoidNullCount *atomic.Uint64
	QuickNullCount *atomic.Uint64
}

// Evaluator is a static position evaluator, scoring from the side to
// move's perspective. Satisfied by eval.Classical/eval.Material/
// eval.Random without pkg/search importing pkg/eval (avoiding an import
// cycle, since pkg/eval never needs to reach back into pkg/search).
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) board.Score
}

// BoundedEvaluator is an Evaluator that can also try to prove a score lies
// outside [alpha, beta] using cheaper means (material alone, say) before
// falling back to a full evaluation. eval.Classical satisfies this; plain
// Evaluators don't need to. Call sites probe for it via evaluateBounded
// rather than asserting it directly, so a bare Evaluator keeps working.
type BoundedEvaluator interface {
	Evaluator
	EvaluateBounded(ctx context.Context, pos *board.Position, alpha, beta board.Score) board.Score
}

// evaluateBounded calls e.EvaluateBounded when e supports it, so the search
// can short-circuit on a lazy material bound; otherwise it falls back to
// the plain Evaluate. Returns 0 if e is nil.
func evaluateBounded(ctx context.Context, e Evaluator, pos *board.Position, alpha, beta board.Score) board.Score {
	if e == nil {
		return 0
	}
	if be, ok := e.(BoundedEvaluator); ok {
		return be.EvaluateBounded(ctx, pos, alpha, beta)
	}
	return e.Evaluate(ctx, pos)
}

// Search is the main (full-width) search algorithm.
type Search interface {
	// Search returns the node count, score and principal variation for b at
	// the given depth, from the side to move's perspective.
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error)
}

// QuietSearch is the leaf-quiescence algorithm a Search implementation
// calls at depth 0.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score, error)
}
