package board

import (
	"context"

	"github.com/seekerror/logw"
)

// AttackKind flags which piece shapes can reach a destination square via a
// given to-from delta, ignoring blockers. See DESIGN.md for how this
// delta-table is grounded (translated from magic-bitboard rays into 0x88
// delta-table rays).
type AttackKind uint8

const (
	AttackKnight AttackKind = 1 << iota
	AttackBishop
	AttackRook
	AttackKing
	AttackPawnWhite // a white pawn at `from` can capture a piece at `to`
	AttackPawnBlack
)

// vectorEntry is one slot of the 256-entry delta table, indexed by
// (to - from) + 128.
type vectorEntry struct {
	kinds AttackKind
	ray   int8 // nonzero: unit step to re-walk the ray from `from` toward `to`
}

var (
	vectorDelta   [256]vectorEntry
	distanceTable [256]int8
)

func deltaIndex(delta int) int {
	return delta + 128
}

var (
	knightOffsets = [8]int{-33, -31, -18, -14, 14, 18, 31, 33}
	kingOffsets   = [8]int{-17, -16, -15, -1, 1, 15, 16, 17}
	bishopDirs    = [4]int{-17, -15, 15, 17}
	rookDirs      = [4]int{-16, -1, 1, 16}
)

func init() {
	buildAttackTables()
}

func buildAttackTables() {
	for _, d := range knightOffsets {
		vectorDelta[deltaIndex(d)].kinds |= AttackKnight
	}
	for _, d := range kingOffsets {
		vectorDelta[deltaIndex(d)].kinds |= AttackKing
	}
	for _, dir := range bishopDirs {
		for n := 1; n < 8; n++ {
			e := &vectorDelta[deltaIndex(dir*n)]
			e.kinds |= AttackBishop
			e.ray = int8(dir)
		}
	}
	for _, dir := range rookDirs {
		for n := 1; n < 8; n++ {
			e := &vectorDelta[deltaIndex(dir*n)]
			e.kinds |= AttackRook
			e.ray = int8(dir)
		}
	}

	// Pawn captures: White moves toward higher ranks (+16 per rank), so a
	// White pawn at `from` captures at `from`+15 or `from`+17.
	vectorDelta[deltaIndex(15)].kinds |= AttackPawnWhite
	vectorDelta[deltaIndex(17)].kinds |= AttackPawnWhite
	vectorDelta[deltaIndex(-15)].kinds |= AttackPawnBlack
	vectorDelta[deltaIndex(-17)].kinds |= AttackPawnBlack

	for delta := -119; delta <= 119; delta++ {
		from := Square(0x40) // a5; deltas that step off the board from here are skipped and leave their entry zero
		to := from.Step(delta)
		if to.IsValid() {
			distanceTable[deltaIndex(delta)] = int8(Distance(from, to))
		}
	}

	validateAttackTables()
}

// validateAttackTables is a fatal startup check: the attack tables are
// computed once at init and must be internally consistent or the process
// should not start. Rather than compare against an unguessable hard-coded
// checksum, it asserts the structural invariants that must hold for any
// correct build of the table: the exact count of populated knight/king/ray
// directions and agreement between distanceTable and Distance.
func validateAttackTables() {
	ctx := context.Background()

	knightCount, kingCount, bishopRays, rookRays := 0, 0, 0, 0
	for _, e := range vectorDelta {
		if e.kinds&AttackKnight != 0 {
			knightCount++
		}
		if e.kinds&AttackKing != 0 {
			kingCount++
		}
		if e.kinds&AttackBishop != 0 {
			bishopRays++
		}
		if e.kinds&AttackRook != 0 {
			rookRays++
		}
	}
	if knightCount != 8 {
		logw.Exitf(ctx, "attack table corrupt: expected 8 knight deltas, got %d", knightCount)
	}
	if kingCount != 8 {
		logw.Exitf(ctx, "attack table corrupt: expected 8 king deltas, got %d", kingCount)
	}
	if bishopRays != 4*7 {
		logw.Exitf(ctx, "attack table corrupt: expected %d bishop ray deltas, got %d", 4*7, bishopRays)
	}
	if rookRays != 4*7 {
		logw.Exitf(ctx, "attack table corrupt: expected %d rook ray deltas, got %d", 4*7, rookRays)
	}

	from := Square(0x40)
	for delta := -119; delta <= 119; delta++ {
		to := from.Step(delta)
		if !to.IsValid() {
			continue
		}
		if int(distanceTable[deltaIndex(delta)]) != Distance(from, to) {
			logw.Exitf(ctx, "distance table corrupt at delta %d", delta)
		}
	}
}

// attacksBetween reports which piece kinds placed at `from` could, ignoring
// blockers, reach `to`. For sliders, it also returns the unit ray step from
// `from` toward `to`.
func attacksBetween(from, to Square) (AttackKind, int) {
	e := vectorDelta[deltaIndex(int(to)-int(from))]
	return e.kinds, int(e.ray)
}

// AttacksBetween is the exported form of attacksBetween, used by packages
// outside board (e.g. see) that need to reason about attack geometry without
// duplicating the vector_delta table.
func AttacksBetween(from, to Square) (AttackKind, int) {
	return attacksBetween(from, to)
}

// PawnAttackKind is the AttackKind flag that identifies a pawn of color by
// capturing along a given delta.
func PawnAttackKind(by Color) AttackKind {
	return pawnAttackKind(by)
}
