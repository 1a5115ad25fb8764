package eval

import "github.com/cmoore/talon/pkg/board"

// Movement deltas mirroring board/attack.go's private offset tables (§4.6
// mobility counting has no need of the attack-kind classification attack.go
// builds, only the raw step vectors, so it is simplest to restate them here
// rather than exporting board's internal geometry for one caller).
var (
	knightDeltas = [8]int{-33, -31, -18, -14, 14, 18, 31, 33}
	kingDeltas   = [8]int{-17, -16, -15, -1, 1, 15, 16, 17}
	bishopDirs   = [4]int{-17, -15, 15, 17}
	rookDirs     = [4]int{-16, -1, 1, 16}
)

// mobilityUnit is the per-reachable-square bonus, by piece type. Knights and
// bishops value mobility most heavily since their reach is most
// position-dependent; the king's "mobility" is folded into king safety
// instead and scores zero here.
var mobilityUnit = [board.NumPieceTypes]board.Score{
	board.Knight: 4,
	board.Bishop: 5,
	board.Rook:   2,
	board.Queen:  1,
}

// evaluateMobility sums, for every non-pawn, non-king piece of side, the
// number of squares it can reach that are not occupied by a friendly piece,
// weighted by mobilityUnit.
func evaluateMobility(pos *board.Position, side board.Color) board.Score {
	var score board.Score
	for _, from := range pos.NonPawns(side) {
		piece, _ := pos.PieceAt(from)
		switch piece.Type() {
		case board.Knight:
			score += mobilityUnit[board.Knight] * board.Score(countLeaperMobility(pos, side, from, knightDeltas[:]))
		case board.King:
			// King mobility is scored as part of king safety, not here.
		case board.Bishop:
			score += mobilityUnit[board.Bishop] * board.Score(countSliderMobility(pos, side, from, bishopDirs[:]))
		case board.Rook:
			score += mobilityUnit[board.Rook] * board.Score(countSliderMobility(pos, side, from, rookDirs[:]))
		case board.Queen:
			score += mobilityUnit[board.Queen] * board.Score(countSliderMobility(pos, side, from, append(append([]int{}, bishopDirs[:]...), rookDirs[:]...)))
		}
	}
	return score
}

func countLeaperMobility(pos *board.Position, side board.Color, from board.Square, deltas []int) int {
	count := 0
	for _, d := range deltas {
		to := from.Step(d)
		if !to.IsValid() {
			continue
		}
		if occ, present := pos.PieceAt(to); !present || occ.Color() != side {
			count++
		}
	}
	return count
}

func countSliderMobility(pos *board.Position, side board.Color, from board.Square, dirs []int) int {
	count := 0
	for _, dir := range dirs {
		for to := from.Step(dir); to.IsValid(); to = to.Step(dir) {
			occ, present := pos.PieceAt(to)
			if !present {
				count++
				continue
			}
			if occ.Color() != side {
				count++
			}
			break
		}
	}
	return count
}
