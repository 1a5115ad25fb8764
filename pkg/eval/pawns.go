package eval

import "github.com/cmoore/talon/pkg/board"

// Pawn-structure term tables, grounded on original_source/eval.c's
// PASSER_BY_RANK/CANDIDATE_PASSER_BY_RANK/SUPPORTED_PASSER_BY_RANK/
// ISOLATED_PAWN_BY_PAWNFILE/DOUBLED_PAWN_PENALTY_BY_COUNT tables, indexed
// here by human rank number (1..8) to match the original's column layout;
// index 0 is an unused sentinel.
var (
	passerByRank = [board.NumColors][9]board.Score{
		board.Black: {0, 0, 162, 111, 62, 36, 18, 13, 0},
		board.White: {0, 0, 13, 18, 36, 62, 111, 162, 0},
	}
	supportedPasserByRank = [board.NumColors][9]board.Score{
		board.Black: {0, 0, 60, 40, 13, 6, 3, 1, 0},
		board.White: {0, 0, 1, 3, 6, 13, 40, 60, 0},
	}
	candidatePasserByRank = [board.NumColors][9]board.Score{
		board.Black: {0, 0, 0, 48, 34, 22, 13, 9, 0},
		board.White: {0, 0, 9, 13, 22, 34, 48, 0, 0},
	}
	duoByRank = [board.NumColors][9]board.Score{
		board.Black: {0, 0, 20, 15, 10, 6, 3, 1, 0},
		board.White: {0, 0, 1, 3, 6, 10, 15, 20, 0},
	}

	isolatedByFile = [8]board.Score{-7, -8, -9, -10, -10, -9, -8, -7}

	isolatedExposedPenalty board.Score = -5
	isolatedDoubledPenalty board.Score = -11

	backwardPenalty       board.Score = -12
	backwardExposedExtra  board.Score = -8

	// doubledPenaltyByMajors is indexed [min(majors,3)][min(excess,8)], where
	// excess is the number of pawns beyond the first on each file, summed
	// across every file.
	doubledPenaltyByMajors = [4][9]board.Score{
		{0, -32, -65, -99, -134, -170, -207, -222, -250},
		{0, -23, -47, -76, -108, -144, -184, -200, -216},
		{0, -13, -23, -34, -46, -64, -86, -111, -138},
		{0, -7, -13, -25, -39, -55, -73, -95, -121},
	}
)

// pawnFiles records, per file, every rank (human rank order is irrelevant
// here) a side's pawns occupy.
type pawnFiles [8][]board.Rank

func collectPawnFiles(pos *board.Position, side board.Color) pawnFiles {
	var pf pawnFiles
	for _, sq := range pos.Pawns(side) {
		pf[sq.File()] = append(pf[sq.File()], sq.Rank())
	}
	return pf
}

// evaluatePawnStructure returns the side-relative (positive-favors-side)
// structural pawn score for one color.
func evaluatePawnStructure(pos *board.Position, side board.Color) board.Score {
	opp := side.Opponent()
	own := collectPawnFiles(pos, side)
	enemy := collectPawnFiles(pos, opp)

	majors := pos.CountOfType(side, board.Rook) + pos.CountOfType(side, board.Queen)
	majorsBucket := majors
	if majorsBucket > 3 {
		majorsBucket = 3
	}

	var score board.Score
	var doubledExcess int

	for f := board.FileA; f <= board.FileH; f++ {
		ranks := own[f]
		if len(ranks) == 0 {
			continue
		}
		if len(ranks) > 1 {
			doubledExcess += len(ranks) - 1
		}

		hasLeft := f > board.FileA && len(own[f-1]) > 0
		hasRight := f < board.FileH && len(own[f+1]) > 0
		isolated := !hasLeft && !hasRight
		halfOpen := len(enemy[f]) == 0

		if isolated {
			score += isolatedByFile[f]
			if halfOpen {
				score += isolatedExposedPenalty
			}
			if len(ranks) > 1 {
				score += isolatedDoubledPenalty
			}
		}

		for _, r := range ranks {
			switch {
			case isPasser(side, f, r, enemy):
				score += passerByRank[side][humanRank(r)]
				if isSupportedPasser(own, f, r, side) {
					score += supportedPasserByRank[side][humanRank(r)]
				}
			case !isolated && isBackward(pos, side, f, r, own, enemy):
				score += backwardPenalty
				if halfOpen {
					score += backwardExposedExtra
				}
			case isCandidatePasser(side, f, r, own, enemy):
				score += candidatePasserByRank[side][humanRank(r)]
			}

			if hasDuo(own, f, r) {
				score += duoByRank[side][humanRank(r)]
			}
		}
	}

	score += doubledPenaltyByMajors[majorsBucket][clampIndex(doubledExcess, 8)]
	return score
}

// humanRank converts a 0-indexed Rank into the 1-indexed column used by the
// rank tables above (Rank1 -> 1, ..., Rank8 -> 8).
func humanRank(r board.Rank) int {
	return int(r) + 1
}

func clampIndex(v, max int) int {
	if v > max {
		return max
	}
	return v
}

// isPasser reports whether a pawn on (f, r) has no enemy pawn able to stop
// or capture it on its own file or an adjacent file, ahead of it.
func isPasser(side board.Color, f board.File, r board.Rank, enemy pawnFiles) bool {
	for _, df := range []int{-1, 0, 1} {
		nf := int(f) + df
		if nf < 0 || nf > int(board.FileH) {
			continue
		}
		for _, er := range enemy[nf] {
			if isAhead(side, r, er) {
				return false
			}
		}
	}
	return true
}

// isAhead reports whether rank er is on or ahead of r from side's direction
// of travel (used to test "no enemy pawn ahead on this file").
func isAhead(side board.Color, r, er board.Rank) bool {
	if side == board.White {
		return er >= r
	}
	return er <= r
}

// rankStep returns the rank step squares ahead of r in side's direction of
// travel (step<0 moves toward side's own back rank), or ok=false if off
// board.
func rankStep(side board.Color, r board.Rank, step int) (board.Rank, bool) {
	dir := 1
	if side == board.Black {
		dir = -1
	}
	nr := int(r) + dir*step
	if nr < int(board.Rank1) || nr > int(board.Rank8) {
		return 0, false
	}
	return board.Rank(nr), true
}

func isSupportedPasser(own pawnFiles, f board.File, r board.Rank, side board.Color) bool {
	behind, ok := rankStep(side, r, -1)
	if !ok {
		return false
	}
	for _, df := range []int{-1, 1} {
		nf := int(f) + df
		if nf < 0 || nf > int(board.FileH) {
			continue
		}
		for _, or := range own[nf] {
			if or == behind {
				return true
			}
		}
	}
	return false
}

// isCandidatePasser reports whether a non-passed pawn could still become a
// passer because the enemy sentries that currently stop it are outnumbered
// by friendly helper pawns that could capture them away.
func isCandidatePasser(side board.Color, f board.File, r board.Rank, own, enemy pawnFiles) bool {
	sentries := 0
	helpers := 0
	for _, df := range []int{-1, 1} {
		nf := int(f) + df
		if nf < 0 || nf > int(board.FileH) {
			continue
		}
		for _, er := range enemy[nf] {
			if isAhead(side, r, er) {
				sentries++
			}
		}
		for _, or := range own[nf] {
			if isAhead(side, or, r) || or == r {
				helpers++
			}
		}
	}
	return sentries > 0 && helpers >= sentries
}

// isBackward reports whether the pawn cannot safely advance: the stop square
// ahead of it is not controlled by any friendly pawn, and it trails the
// pawns on both neighboring files so no friendly pawn can ever catch up to
// defend that square.
func isBackward(pos *board.Position, side board.Color, f board.File, r board.Rank, own, enemy pawnFiles) bool {
	stop, ok := rankStep(side, r, 1)
	if !ok {
		return false
	}
	for _, df := range []int{-1, 1} {
		nf := int(f) + df
		if nf < 0 || nf > int(board.FileH) {
			continue
		}
		for _, or := range own[nf] {
			if isAhead(side, or, r) {
				return false // a neighbor pawn is level with or behind it: not backward
			}
		}
	}
	stopSq := board.NewSquare(f, stop)
	return pos.IsAttacked(stopSq, side.Opponent()) && attackingPawn(pos, stopSq, side.Opponent())
}

func attackingPawn(pos *board.Position, sq board.Square, by board.Color) bool {
	for _, from := range pos.Pawns(by) {
		if kinds, _ := board.AttacksBetween(from, sq); board.PawnAttackKind(by)&kinds != 0 {
			return true
		}
	}
	return false
}

func hasDuo(own pawnFiles, f board.File, r board.Rank) bool {
	for _, df := range []int{-1, 1} {
		nf := int(f) + df
		if nf < 0 || nf > int(board.FileH) {
			continue
		}
		for _, or := range own[nf] {
			if or == r {
				return true
			}
		}
	}
	return false
}
