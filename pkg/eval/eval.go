// Package eval contains position evaluation logic: material, pawn
// structure, mobility, king safety, passed-pawn scaling, and the
// interior-node recognizer probe that can short-circuit all of it.
package eval

import (
	"context"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/eval/recognizer"
)

// Evaluator is a static position evaluator, scoring from the side to
// move's perspective.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) board.Score
}

// Material returns the nominal material advantage for the side to move,
// with no positional terms at all. Classical computes the same imbalance
// itself (materialImbalance) for its lazy-eval test.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos *board.Position) board.Score {
	side := pos.Turn()
	pawnImb, nonPawnImb := materialImbalance(pos, side)
	return pawnImb + nonPawnImb
}

// lazyMargin is the positional allowance evaluateWithBounds adds to the
// material imbalance before returning early outside [alpha, beta]. It is an
// estimate, not a bound on the remaining terms: a single racerWinsRaceBonus
// (800) or a full king-danger penalty (400) exceeds it, so a lazy return can
// differ from the full evaluation by more than lazyMargin.
const lazyMargin = board.Score(250)

// Classical is the main positional evaluator: material with trade
// scalers, pawn structure (pawn-hash cached), mobility, king safety, and
// the recognizer probe, all folded into one side-relative score.
type Classical struct {
	Pawns  *PawnCache
	Prober recognizer.Prober
	Noise  Evaluator // optional; e.g. Random, added last
}

func (c Classical) Evaluate(ctx context.Context, pos *board.Position) board.Score {
	side := pos.Turn()

	if result := recognizer.Probe(pos, c.Prober); result.Kind != recognizer.NotRecognized {
		score := result.Score
		if side == board.Black {
			score = -score
		}
		return score
	}

	return c.evaluateWithBounds(ctx, pos, side, board.NegInf, board.Inf)
}

// EvaluateBounded is the lazy-eval entry point search calls directly: it
// tries to prove the score lies outside [alpha, beta] using material alone
// plus lazyMargin before computing positional terms.
func (c Classical) EvaluateBounded(ctx context.Context, pos *board.Position, alpha, beta board.Score) board.Score {
	side := pos.Turn()

	if result := recognizer.Probe(pos, c.Prober); result.Kind != recognizer.NotRecognized {
		score := result.Score
		if side == board.Black {
			score = -score
		}
		return score
	}

	return c.evaluateWithBounds(ctx, pos, side, alpha, beta)
}

func (c Classical) evaluateWithBounds(ctx context.Context, pos *board.Position, side board.Color, alpha, beta board.Score) board.Score {
	pawnImb, nonPawnImb := materialImbalance(pos, side)
	material := pawnImb + nonPawnImb

	if material-lazyMargin >= beta {
		return material - lazyMargin
	}
	if material+lazyMargin <= alpha {
		return material + lazyMargin
	}

	score := materialScalers(pos, side)
	score += c.pawnScore(pos, side)
	score += evaluateMobility(pos, side) - evaluateMobility(pos, side.Opponent())
	score += evaluateKingSafety(pos, side) - evaluateKingSafety(pos, side.Opponent())
	score += evaluatePassedPawnBonus(pos, side)

	if c.Noise != nil {
		score += c.Noise.Evaluate(ctx, pos)
	}

	return board.Clamp(score, board.NegInf, board.Inf)
}

func (c Classical) pawnScore(pos *board.Position, side board.Color) board.Score {
	if c.Pawns != nil {
		return c.Pawns.Evaluate(pos, side)
	}
	return evaluatePawnStructure(pos, side) - evaluatePawnStructure(pos, side.Opponent())
}

// evaluatePassedPawnBonus adds, for each free passer of side, a bonus of up
// to 20 that grows as the opponent's non-pawn material falls below its
// starting amount, plus racerWinsRaceBonus when the opponent has no
// non-pawn material left and its king is farther from the promotion square
// than the pawn. Nothing is added while the opponent keeps its full starting
// non-pawn material. The rank bonus itself stays in evaluatePawnStructure.
func evaluatePassedPawnBonus(pos *board.Position, side board.Color) board.Score {
	opp := side.Opponent()
	remaining := pos.NonPawnMaterial(opp)
	if remaining >= startingNonPawnMaterial {
		return 0
	}

	bonus := board.Score(0)
	for _, sq := range pos.Pawns(side) {
		if !isFreePasser(pos, side, sq) {
			continue
		}
		stepsToPromote := promotionDistance(side, sq.Rank())
		enemyKingDist := board.Distance(pos.KingSquare(opp), promotionSquare(side, sq.File()))
		if enemyKingDist > stepsToPromote && remaining == 0 {
			bonus += racerWinsRaceBonus
		}
		shrink := (startingNonPawnMaterial - remaining) * 20 / startingNonPawnMaterial
		bonus += shrink
	}
	return bonus
}

const racerWinsRaceBonus = board.Score(800)

func isFreePasser(pos *board.Position, side board.Color, sq board.Square) bool {
	enemy := collectPawnFiles(pos, side.Opponent())
	return isPasser(side, sq.File(), sq.Rank(), enemy)
}

func promotionDistance(side board.Color, r board.Rank) int {
	if side == board.White {
		return int(board.Rank8) - int(r)
	}
	return int(r) - int(board.Rank1)
}

func promotionSquare(side board.Color, f board.File) board.Square {
	if side == board.White {
		return board.NewSquare(f, board.Rank8)
	}
	return board.NewSquare(f, board.Rank1)
}
