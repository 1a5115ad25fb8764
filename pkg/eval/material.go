package eval

import "github.com/cmoore/talon/pkg/board"

// materialImbalance returns side's material lead over its opponent: pawn and
// non-pawn material are kept apart because the trade scalers below weigh
// them differently.
func materialImbalance(pos *board.Position, side board.Color) (pawns, nonPawns board.Score) {
	opp := side.Opponent()
	pawns = pos.PawnMaterial(side) - pos.PawnMaterial(opp)
	nonPawns = pos.NonPawnMaterial(side) - pos.NonPawnMaterial(opp)
	return pawns, nonPawns
}

// materialScalers scales raw material imbalance: trading pieces
// favors the side already ahead (fewer pieces on the board means the
// opponent has less counterplay left to convert its deficit), while trading
// pawns disfavors the side ahead (fewer pawns means fewer targets and an
// easier technical draw for the side behind).
func materialScalers(pos *board.Position, side board.Color) board.Score {
	pawnImb, nonPawnImb := materialImbalance(pos, side)
	total := pawnImb + nonPawnImb
	if total == 0 {
		return 0
	}

	opp := side.Opponent()
	remainingNonPawns := pos.NonPawnMaterial(side) + pos.NonPawnMaterial(opp)
	remainingPawns := pos.PawnMaterial(side) + pos.PawnMaterial(opp)

	// Fewer non-pawn material left on the board => larger bonus for the
	// leader (pieces traded off favors conversion of the lead).
	pieceTradeBonus := scaleByRemaining(nonPawnImb, remainingNonPawns, startingNonPawnMaterial, true)

	// Fewer pawns left on the board => smaller bonus for the leader (pawns
	// traded off favors the trailing side's drawing chances).
	pawnTradePenalty := scaleByRemaining(pawnImb, remainingPawns, startingPawnMaterial, false)

	return total + pieceTradeBonus + pawnTradePenalty
}

var (
	startingNonPawnMaterial = board.Score(2*(board.PieceValue(board.Knight)+board.PieceValue(board.Bishop)+board.PieceValue(board.Rook)) + board.PieceValue(board.Queen))
	startingPawnMaterial    = 8 * board.PieceValue(board.Pawn)
)

// scaleByRemaining produces a bonus/penalty proportional to imb, growing as
// `remaining` shrinks toward zero, when favor is true; it shrinks toward
// zero as material is traded off when favor is false.
func scaleByRemaining(imb, remaining, starting board.Score, favor bool) board.Score {
	if imb == 0 || starting == 0 {
		return 0
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > starting {
		remaining = starting
	}

	// tradedOff in [0, 1] scaled to eighths: how much of the starting
	// material has left the board.
	tradedOff := (starting - remaining) * 8 / starting
	magnitude := imb
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var scaled board.Score
	if favor {
		scaled = magnitude * tradedOff / 16
	} else {
		scaled = -(magnitude * tradedOff / 16)
	}
	if imb < 0 {
		scaled = -scaled
	}
	return scaled
}
