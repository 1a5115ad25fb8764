package search

import (
	"sort"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/see"
)

// MovePicker orders a node's legal moves for search (see DESIGN.md for how
// this is grounded against the board API). Ordering: hash move first, then
// winning/equal captures by SEE gain, then killers, then quiet moves by
// history weight, then losing captures last.
type MovePicker struct {
	moves  []board.Move
	scores []int64
	picked int
}

// priority bands, highest first; a move's final sort key is
// band<<40 | secondary so bands never intermix.
const (
	bandHash          = int64(6) << 40
	bandWinningCapture = int64(5) << 40
	bandKiller         = int64(4) << 40
	bandQuiet          = int64(3) << 40
	bandLosingCapture  = int64(1) << 40
)

// NewMovePicker scores and orders moves for one node. hashMove is the best
// move from a transposition hit (zero Move if none); ordering may be nil,
// in which case killer/history ranking is skipped (e.g. at the root before
// any ordering state has accumulated for this game).
func NewMovePicker(pos *board.Position, moves []board.Move, ply int, hashMove board.Move, ordering *Ordering) *MovePicker {
	scores := make([]int64, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(pos, m, ply, hashMove, ordering)
	}

	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	ordered := make([]board.Move, len(moves))
	orderedScores := make([]int64, len(moves))
	for i, j := range idx {
		ordered[i] = moves[j]
		orderedScores[i] = scores[j]
	}
	return &MovePicker{moves: ordered, scores: orderedScores}
}

func scoreMove(pos *board.Position, m board.Move, ply int, hashMove board.Move, ordering *Ordering) int64 {
	if !hashMove.IsNull() && m.Equals(hashMove) {
		return bandHash
	}

	if m.IsCapture() || m.IsEnPassant() {
		gain := int64(see.Evaluate(pos, m))
		if gain >= 0 {
			return bandWinningCapture + gain
		}
		return bandLosingCapture + gain
	}

	if ordering != nil && ply < board.MaxPly && ordering.IsKiller(ply, m) {
		return bandKiller
	}

	if ordering != nil {
		return bandQuiet + int64(ordering.History(m))
	}
	return bandQuiet
}

// Next returns the next move in ranked order, or ok=false when exhausted.
func (p *MovePicker) Next() (board.Move, bool) {
	if p.picked >= len(p.moves) {
		return board.Move{}, false
	}
	m := p.moves[p.picked]
	p.picked++
	return m, true
}

// Remaining reports how many moves have not yet been returned by Next.
func (p *MovePicker) Remaining() int {
	return len(p.moves) - p.picked
}

// All returns every move in ranked order, without consuming the picker.
func (p *MovePicker) All() []board.Move {
	return p.moves[p.picked:]
}

// Captures filters moves to only captures/en-passant, preserving order.
// The quiescence search does not call it; it generates its moves with
// board.GenerateCaptures.
func Captures(moves []board.Move) []board.Move {
	out := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if m.IsCapture() || m.IsEnPassant() {
			out = append(out, m)
		}
	}
	return out
}
