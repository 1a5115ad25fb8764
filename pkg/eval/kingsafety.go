package eval

import "github.com/cmoore/talon/pkg/board"

// kingDangerPenalty is the monotonic penalty table a side's own king-danger
// counter indexes into. Values grow superlinearly since a handful of
// attackers close to the king is disproportionately more dangerous than
// one or two.
var kingDangerPenalty = [32]board.Score{
	0, 0, 1, 3, 6, 10, 15, 22,
	30, 40, 52, 66, 82, 100, 120, 142,
	166, 192, 220, 250, 282, 316, 352, 390,
	400, 400, 400, 400, 400, 400, 400, 400,
}

// minimumAttackMaterial is the least non-pawn material the attacking side
// must still have on the board for a king-safety attack to be realistic;
// below this, evaluateKingSafety returns 0 without counting.
var minimumAttackMaterial = board.PieceValue(board.Rook) + board.PieceValue(board.Knight)

// Movement deltas reused from mobility.go's geometry.
func evaluateKingSafety(pos *board.Position, side board.Color) board.Score {
	attacker := side.Opponent()
	if pos.NonPawnMaterial(attacker) < minimumAttackMaterial {
		return 0
	}

	king := pos.KingSquare(side)
	counter := 0
	for _, from := range pos.NonPawns(attacker) {
		piece, _ := pos.PieceAt(from)
		if piece.Type() == board.King {
			continue
		}
		counter += dangerContribution(pos, attacker, piece.Type(), from, king)
	}
	for _, from := range pos.Pawns(attacker) {
		if kinds, _ := board.AttacksBetween(from, king); board.PawnAttackKind(attacker)&kinds != 0 {
			counter++
		}
	}

	if counter >= len(kingDangerPenalty) {
		counter = len(kingDangerPenalty) - 1
	}
	return -kingDangerPenalty[counter]
}

// dangerContribution reports how many of the squares immediately around
// king, plus the king's own square, a piece on from can reach.
func dangerContribution(pos *board.Position, side board.Color, pt board.PieceType, from, king board.Square) int {
	count := 0
	for _, d := range kingDeltas {
		ringSquare := king.Step(d)
		if !ringSquare.IsValid() {
			continue
		}
		if reachesSquare(pos, side, pt, from, ringSquare) {
			count++
		}
	}
	if reachesSquare(pos, side, pt, from, king) {
		count++
	}
	return count
}

func reachesSquare(pos *board.Position, side board.Color, pt board.PieceType, from, to board.Square) bool {
	switch pt {
	case board.Knight:
		for _, d := range knightDeltas {
			if from.Step(d) == to {
				return true
			}
		}
		return false
	case board.Bishop:
		return slidesTo(pos, from, to, bishopDirs[:])
	case board.Rook:
		return slidesTo(pos, from, to, rookDirs[:])
	case board.Queen:
		return slidesTo(pos, from, to, bishopDirs[:]) || slidesTo(pos, from, to, rookDirs[:])
	default:
		return false
	}
}

func slidesTo(pos *board.Position, from, to board.Square, dirs []int) bool {
	for _, dir := range dirs {
		for sq := from.Step(dir); sq.IsValid(); sq = sq.Step(dir) {
			if sq == to {
				return true
			}
			if _, occupied := pos.PieceAt(sq); occupied {
				break
			}
		}
	}
	return false
}
