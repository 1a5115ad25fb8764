// Package board contains the chess board representation and utilities: the
// 0x88 Position (move generation's working type), the Board wrapper that
// layers game history and draw adjudication on top of it, and the packed
// Move/Piece/Square/Score value types shared across the module.
package board

import "fmt"

const (
	repetition3Limit  = 3
	repetition5Limit  = 5
	noProgressPlyLimit = 100
)

// Board tracks a Position together with the game history needed to
// adjudicate draws: repetition counting and the fifty-move rule. Position
// itself only knows the current fifty-move count (needed by make/unmake);
// Board keeps the append-only move history and a signature-keyed
// repetition map layered over a single mutable Position. Not thread-safe.
type Board struct {
	pos *Position

	repetitions map[Signature]int
	history     []Move
	result      Result
}

// NewBoard wraps pos for play, seeding the repetition table with its
// current signature.
func NewBoard(pos *Position) *Board {
	return &Board{
		pos:         pos,
		repetitions: map[Signature]int{pos.Signature(): 1},
	}
}

func (b *Board) Position() *Position { return b.pos }
func (b *Board) Turn() Color         { return b.pos.Turn() }
func (b *Board) NoProgress() int     { return b.pos.Fifty() }
func (b *Board) Ply() int            { return len(b.history) }
func (b *Board) Hash() Signature     { return b.pos.Signature() }

// Fork returns an independent copy of b, suitable for handing to a search
// goroutine while the original continues to track the live game.
func (b *Board) Fork() *Board {
	repetitions := make(map[Signature]int, len(b.repetitions))
	for k, v := range b.repetitions {
		repetitions[k] = v
	}
	return &Board{
		pos:         b.pos.Clone(),
		repetitions: repetitions,
		history:     append([]Move(nil), b.history...),
		result:      b.result,
	}
}
func (b *Board) FullMoves() int      { return b.pos.FullMoveNumber() }
func (b *Board) Result() Result      { return b.result }

// PushMove attempts to make a pseudo-legal move, returning true iff legal.
// On success it updates draw adjudication (repetition, fifty-move,
// insufficient material).
func (b *Board) PushMove(m Move) bool {
	if b.result.Reason == Checkmate || b.result.Reason == Stalemate {
		return false // no legal moves exist
	}

	if !b.pos.MakeMove(m) {
		return false
	}

	b.history = append(b.history, m)
	sig := b.pos.Signature()
	b.repetitions[sig]++

	switch {
	case b.repetitions[sig] >= repetition5Limit:
		b.result = Result{Outcome: Draw, Reason: Repetition5}
	case b.repetitions[sig] >= repetition3Limit:
		b.result = Result{Outcome: Draw, Reason: Repetition3}
	}

	if b.pos.Fifty() >= noProgressPlyLimit {
		b.result = Result{Outcome: Draw, Reason: NoProgress}
	}

	if b.pos.HasInsufficientMaterial() {
		b.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
	}

	return true
}

// PopMove reverts the most recently pushed move.
func (b *Board) PopMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}

	sig := b.pos.Signature()
	b.repetitions[sig]--
	if b.repetitions[sig] == 0 {
		delete(b.repetitions, sig)
	}
	b.result = Result{Outcome: Undecided}

	b.pos.UnmakeMove()

	n := len(b.history) - 1
	m := b.history[n]
	b.history = b.history[:n]
	return m, true
}

// AdjudicateNoLegalMoves adjudicates the position assuming the side to move
// has no legal moves: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.pos.InCheck(b.Turn()) {
		result = Result{Outcome: Loss(b.Turn()), Reason: Checkmate}
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate forces the game result.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// LastMove returns the most recently pushed move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// HasCastled reports whether c has castled at any point in the tracked
// history.
func (b *Board) HasCastled(c Color) bool {
	turn := b.Turn().Opponent() // color that made the most recent move
	for i := len(b.history) - 1; i >= 0; i-- {
		if turn == c && b.history[i].IsCastle() {
			return true
		}
		turn = turn.Opponent()
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v turn=%v result=%v}", b.pos, b.Turn(), b.result)
}
