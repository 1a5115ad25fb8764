package search

import (
	"context"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/see"
)

// Quiescence is the leaf-quiescence search: it plays out captures (and, if
// the side to move is in check, every evasion) until the position is quiet,
// then returns the static evaluation. Capture candidates are filtered
// through see.Evaluate rather than a nominal-value MVV/LVA gate. See
// DESIGN.md for grounding.
type Quiescence struct {
	Eval Evaluator
}

// quietDepthCap bounds recursion; a won/lost exchange sequence on a single
// 0x88 board cannot meaningfully exceed this many plies of check/recapture.
const quietDepthCap = 32

func (q *Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score, error) {
	alpha, beta := sctx.Alpha, sctx.Beta
	if beta.Less(alpha) {
		alpha, beta = beta, alpha
	}

	r := &runQuiescence{ctx: ctx, sctx: sctx, b: b, eval: q.Eval}
	score, err := r.search(alpha, beta, 0)
	return r.nodes, score, err
}

type runQuiescence struct {
	ctx   context.Context
	sctx  *Context
	b     *board.Board
	eval  Evaluator
	nodes uint64
}

func (r *runQuiescence) search(alpha, beta board.Score, qply int) (board.Score, error) {
	select {
	case <-r.ctx.Done():
		return 0, ErrHalted
	default:
	}
	r.nodes++

	pos := r.b.Position()
	turn := pos.Turn()
	inCheck := pos.InCheck(turn)

	standPat := board.Score(0)
	if !inCheck {
		standPat = evaluateBounded(r.ctx, r.eval, pos, alpha, beta)
		if standPat >= beta {
			return beta, nil
		}
		alpha = board.Max(alpha, standPat)
	}

	var moves []board.Move
	switch {
	case inCheck:
		moves = board.GenerateMoves(pos, board.GenerateEscapes)
	case qply >= quietDepthCap:
		moves = nil
	default:
		moves = board.GenerateMoves(pos, board.GenerateCaptures)
	}

	if len(moves) == 0 {
		if inCheck {
			// The side to move has no evasion: mated at this node.
			r.b.AdjudicateNoLegalMoves()
			return board.MatedIn(0), nil
		}
		return alpha, nil
	}

	picker := NewMovePicker(pos, moves, 0, board.Move{}, nil)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}

		if !inCheck && (m.IsCapture() || m.IsEnPassant()) && see.IsLosing(pos, m) {
			continue
		}

		if !r.b.PushMove(m) {
			continue
		}
		score, err := r.search(beta.Negate(), alpha.Negate(), qply+1)
		r.b.PopMove()
		if err != nil {
			return 0, err
		}
		score = board.IncrementMateDistance(score.Negate())

		if score >= beta {
			return beta, nil
		}
		alpha = board.Max(alpha, score)
	}

	return alpha, nil
}
