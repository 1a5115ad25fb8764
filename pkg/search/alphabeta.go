package search

import (
	"context"

	"github.com/cmoore/talon/pkg/board"
)

// Ply-unit constants: depth throughout this package is counted in
// quarter-plies, so that extensions/reductions smaller than a full ply can
// be expressed as plain integer depth adjustments, grounded on
// original_source/root.c's ONE_PLY/HALF_PLY/QUARTER_PLY scheme.
const (
	QuarterPly      = 1
	HalfPly         = 2 * QuarterPly
	ThreeQuarterPly = 3 * QuarterPly
	OnePly          = 4 * QuarterPly
)

// Aspiration window steps, grounded on original_source/root.c's
// INITIAL_HALF_WINDOW/FIRST_FAIL_STEP/SECOND_FAIL_STEP.
const (
	InitialHalfWindow = board.Score(75)
	FirstFailStep     = board.Score(150)
	SecondFailStep    = board.Score(375)
)

const (
	nullMoveMinDepth    = 2 * OnePly
	nullMoveReduction   = 3 * OnePly
	nullMoveVerifyDepth = 3 * OnePly // near-terminal: verify before trusting a null-move cutoff
	iidMinDepth         = 4 * OnePly
	iidReduction        = 2 * OnePly
	lmrMinDepth         = 2 * OnePly
	lmrMinMoveIndex     = 3 // first this many moves are never reduced
	lmrReduction        = OnePly
	checkExtension      = OnePly
	pawnTo7thExtension  = HalfPly
	recaptureExtension  = QuarterPly
)

// AlphaBeta is the main (full-width) negamax search: null-move reduction,
// internal iterative deepening, principal-variation search, late-move
// reduction, a capped extensions budget, mate-distance pruning and
// transposition-table probing/storing. See DESIGN.md for how this is
// grounded and generalized to board.Score.
type AlphaBeta struct {
	Quiet QuietSearch
}

func (a *AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	alpha, beta := sctx.Alpha, sctx.Beta
	if beta.Less(alpha) {
		alpha, beta = beta, alpha
	}
	if sctx.Ordering == nil {
		sctx.Ordering = NewOrdering()
	}

	r := &runAlphaBeta{ctx: ctx, sctx: sctx, b: b, quiet: a.Quiet}
	r.rootDepthUnits = depth
	if sctx.RootDepth != 0 {
		r.rootDepthUnits = sctx.RootDepth
	}

	score, pv, err := r.search(alpha, beta, depth, 0)
	return r.nodes, score, pv, err
}

type runAlphaBeta struct {
	ctx   context.Context
	sctx  *Context
	b     *board.Board
	quiet QuietSearch

	rootDepthUnits int
	nodes          uint64
}

// extensionReduction returns how many quarter-plies to strip off a
// requested extension at distanceFromRoot: full credit for the first
// 2x root-depth plies, then progressively reduced, then ignored past
// 4x root-depth.
func (r *runAlphaBeta) extensionReduction(distanceFromRoot int) int {
	soft := r.rootDepthUnits * 2
	hard := r.rootDepthUnits * 4
	switch {
	case distanceFromRoot < soft:
		return 0
	case distanceFromRoot < soft+r.rootDepthUnits/2:
		return QuarterPly
	case distanceFromRoot < soft+r.rootDepthUnits:
		return HalfPly
	case distanceFromRoot < hard:
		return ThreeQuarterPly
	default:
		return 5 * OnePly // exceeds any single extension; clamps it to 0
	}
}

func (r *runAlphaBeta) applyExtension(requested, distanceFromRoot int) int {
	e := requested - r.extensionReduction(distanceFromRoot)
	if e < 0 {
		return 0
	}
	return e
}

func (r *runAlphaBeta) search(alpha, beta board.Score, depth, ply int) (board.Score, []board.Move, error) {
	select {
	case <-r.ctx.Done():
		return 0, nil, ErrHalted
	default:
	}
	r.nodes++

	pos := r.b.Position()
	turn := pos.Turn()
	isPV := beta-alpha > 1

	// 1. Draw checks.
	if result := r.b.Result(); result.Outcome == board.Draw {
		return board.DrawScore, nil, nil
	}

	// 2. Mate-distance pruning.
	alpha = board.Max(alpha, board.MatedIn(ply))
	beta = board.Min(beta, board.MateIn(ply+1))
	if alpha >= beta {
		return alpha, nil, nil
	}

	// 3. Transposition probe.
	sig := r.b.Hash()
	ttMove := board.Move{}
	if r.sctx.TT != nil {
		if bound, ttDepth, ttScore, m, ok := r.sctx.TT.Read(sig, ply); ok {
			ttMove = m
			if ttDepth >= depth {
				switch bound {
				case ExactBound:
					return ttScore, []board.Move{ttMove}, nil
				case LowerBound:
					if ttScore >= beta {
						return ttScore, []board.Move{ttMove}, nil
					}
				case UpperBound:
					if ttScore <= alpha {
						return ttScore, []board.Move{ttMove}, nil
					}
				}
			}
		}
	}

	// depth==0: hand off to quiescence.
	if depth <= 0 {
		nodes, score, err := r.quiet.QuietSearch(r.ctx, &Context{Alpha: alpha, Beta: beta, Eval: r.sctx.Eval}, r.b)
		r.nodes += nodes
		return score, nil, err
	}

	inCheck := pos.InCheck(turn)

	// 5. Static eval, used for pruning decisions below. Bounded so a
	// material-only evaluator can short-circuit the full positional
	// computation when it is nowhere near deciding the null-move test.
	var staticEval board.Score
	if !inCheck && r.sctx.Eval != nil {
		staticEval = evaluateBounded(r.ctx, r.sctx.Eval, pos, alpha, beta)
	}

	// 6. Null-move reduction.
	if !inCheck && !isPV && depth >= nullMoveMinDepth && pos.NonPawnMaterial(turn) > 0 && staticEval >= beta {
		pos.MakeNullMove()
		score, _, err := r.search(beta.Negate(), beta.Negate()+1, depth-nullMoveReduction, ply+1)
		pos.UnmakeNullMove()
		if err != nil {
			return 0, nil, err
		}
		score = board.IncrementMateDistance(score.Negate())
		if score >= beta {
			if depth >= nullMoveVerifyDepth {
				if r.sctx.QuickNullCount != nil {
					r.sctx.QuickNullCount.Inc()
				}
				return beta, nil, nil
			}
			// Verify with a reduced-depth real search before trusting the
			// cutoff this close to the horizon (avoids zugzwang blunders).
			// UnmakeNullMove already restored turn to move at this same ply,
			// so the verification search uses the node's own window and
			// compares its result directly: no perspective flip needed.
			verifyScore, _, err := r.search(beta-1, beta, depth-nullMoveReduction, ply)
			if err != nil {
				return 0, nil, err
			}
			if verifyScore >= beta {
				return beta, nil, nil
			}
		}
	} else if r.sctx.AvoidNullCount != nil && !inCheck && depth >= nullMoveMinDepth {
		r.sctx.AvoidNullCount.Inc()
	}

	// 7. Internal iterative deepening: no hash move on a PV node deep
	// enough to be worth it.
	if isPV && ttMove.IsNull() && depth >= iidMinDepth {
		_, pv, err := r.search(alpha, beta, depth-iidReduction, ply)
		if err != nil {
			return 0, nil, err
		}
		if len(pv) > 0 {
			ttMove = pv[0]
		}
	}

	// 8. Move loop.
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)
	if len(moves) == 0 {
		result := r.b.AdjudicateNoLegalMoves()
		if result.Reason == board.Checkmate {
			return board.MatedIn(ply), nil, nil
		}
		return board.DrawScore, nil, nil
	}

	picker := NewMovePicker(pos, moves, ply, ttMove, r.sctx.Ordering)

	var (
		best      = board.NegInf
		bestMove  board.Move
		bestPV    []board.Move
		tried     []board.Move
		moveIndex int
	)

	originalAlpha := alpha
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		isRecapture := isConsistentRecapture(r.b, m)

		// Late-move pruning: skip a quiet move outright, without making it,
		// once this many moves deep at this shallow a remaining depth have
		// historically produced a cutoff too rarely to be worth searching.
		if !isPV && !inCheck && m.IsQuiet() && r.sctx.Ordering.ShouldPruneLateMove(moveIndex+1, depth) {
			continue
		}

		if !r.b.PushMove(m) {
			continue
		}
		moveIndex++
		tried = append(tried, m)
		r.sctx.Ordering.RecordMoveTried(moveIndex)

		givesCheck := pos.InCheck(pos.Turn())

		extension := 0
		switch {
		case givesCheck:
			extension = checkExtension
		case m.Piece.Type() == board.Pawn && isSeventhRankPush(m):
			extension = pawnTo7thExtension
		case isRecapture:
			extension = recaptureExtension
		}
		extension = r.applyExtension(extension, ply*OnePly)

		nextDepth := depth - OnePly + extension

		reduction := 0
		if moveIndex > lmrMinMoveIndex && depth >= lmrMinDepth && extension == 0 &&
			m.IsQuiet() && !inCheck && !givesCheck {
			reduction = lmrReduction
		}

		var (
			score   board.Score
			childPV []board.Move
			err     error
		)

		if moveIndex == 1 {
			// First move: full window.
			score, childPV, err = r.search(beta.Negate(), alpha.Negate(), nextDepth, ply+1)
			if err != nil {
				r.b.PopMove()
				return 0, nil, err
			}
			score = board.IncrementMateDistance(score.Negate())
		} else {
			// Scout with a null window (reduced depth if LMR applies).
			score, childPV, err = r.search(alpha.Negate()-1, alpha.Negate(), nextDepth-reduction, ply+1)
			if err != nil {
				r.b.PopMove()
				return 0, nil, err
			}
			score = board.IncrementMateDistance(score.Negate())
			if score > alpha && score < beta {
				// Fail-high on the scout (or a reduced move that beat
				// alpha): re-search at the full window and undo any LMR.
				score, childPV, err = r.search(beta.Negate(), alpha.Negate(), nextDepth, ply+1)
				if err != nil {
					r.b.PopMove()
					return 0, nil, err
				}
				score = board.IncrementMateDistance(score.Negate())
			}
		}
		r.b.PopMove()

		if score > best {
			best = score
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			r.sctx.Ordering.Update(ply, depth, m, tried, moveIndex)
			if r.sctx.TT != nil {
				r.sctx.TT.Write(sig, LowerBound, ply, depth, beta, m)
			}
			return beta, bestPV, nil
		}
	}

	if r.sctx.TT != nil {
		bound := ExactBound
		if best <= originalAlpha {
			bound = UpperBound
		}
		r.sctx.TT.Write(sig, bound, ply, depth, best, bestMove)
	}
	return best, bestPV, nil
}

// isSeventhRankPush reports whether a pawn push reaches the rank just
// short of promotion (the 7th rank for White, 2nd for Black).
func isSeventhRankPush(m board.Move) bool {
	if m.Piece.Type() != board.Pawn {
		return false
	}
	if m.Piece.Color() == board.White {
		return m.To.Rank() == board.Rank7
	}
	return m.To.Rank() == board.Rank2
}

// isConsistentRecapture reports whether m recaptures on the same square
// the opponent's last move captured on, a cheap proxy for "this exchange
// is still resolving" worth half the weight of a full check extension.
func isConsistentRecapture(b *board.Board, m board.Move) bool {
	last, ok := b.LastMove()
	if !ok || !last.IsCapture() {
		return false
	}
	return m.IsCapture() && m.To == last.To
}
