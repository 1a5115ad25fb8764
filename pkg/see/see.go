// Package see implements the static exchange evaluator: given a capture (or
// any move landing on an occupied or en-passant square), it computes the net
// material result of playing out every recapture on that square in
// least-valuable-attacker order, without walking the search tree. Grounded
// on original_source/see.c's SlowGetAttacks swap list, re-expressed over
// board.Position's piece lists and board.Position.AttackersOf instead of
// the original's per-square attacker scan.
package see

import "github.com/cmoore/talon/pkg/board"

// Evaluate returns the static exchange value of m: the net material gain
// for the side playing m if every subsequent recapture on m.To is played in
// least-valuable-attacker order to quiescence. A positive value means the
// exchange favors the mover.
//
// Evaluate does not mutate pos and does not require m to have been played.
func Evaluate(pos *board.Position, m board.Move) board.Score {
	to := m.To
	mover := m.Piece.Color()

	removed := map[board.Square]bool{m.From: true}

	var gain []board.Score
	if m.IsEnPassant() {
		capSq := board.NewSquare(to.File(), m.From.Rank())
		removed[capSq] = true
		gain = append(gain, board.PieceValue(board.Pawn))
	} else if m.IsCapture() {
		gain = append(gain, board.PieceValue(m.Captured.Type()))
	} else {
		gain = append(gain, 0)
	}

	// occupantValue is the value of whatever piece currently sits on `to`,
	// about to be captured by the next attacker in the loop below. It
	// starts out as the value of the piece that played m.
	occupantType := m.Piece.Type()
	occupantValue := board.PieceValue(occupantType)
	if m.IsPromotion() {
		gain[0] += board.PieceValue(m.Promotion) - board.PieceValue(board.Pawn)
		occupantValue = board.PieceValue(m.Promotion)
	}

	side := mover.Opponent()
	for {
		attackers := pos.AttackersOf(to, side, removed)
		if len(attackers) == 0 {
			break
		}

		defenders := pos.AttackersOf(to, side.Opponent(), removed)
		sq, pt, ok := leastValuableAttacker(pos, attackers, len(defenders) > 0)
		if !ok {
			break
		}

		removed[sq] = true
		gain = append(gain, occupantValue-gain[len(gain)-1])
		occupantValue = board.PieceValue(pt)
		side = side.Opponent()
	}

	for i := len(gain) - 1; i > 0; i-- {
		gain[i-1] = -board.Max(-gain[i-1], gain[i])
	}
	return gain[0]
}

// leastValuableAttacker picks the cheapest piece among attackers. A king is
// only eligible when the opponent has no remaining defender of the square:
// capturing with the king while the opponent could still recapture would
// walk it into check, which is illegal.
func leastValuableAttacker(pos *board.Position, attackers []board.Square, opponentHasDefender bool) (board.Square, board.PieceType, bool) {
	best := board.InvalidSquare
	bestType := board.NoPieceType
	bestValue := board.Score(1 << 30)

	for _, sq := range attackers {
		piece, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		if piece.Type() == board.King && opponentHasDefender {
			continue
		}
		if v := board.PieceValue(piece.Type()); v < bestValue {
			bestValue, best, bestType = v, sq, piece.Type()
		}
	}
	return best, bestType, best != board.InvalidSquare
}

// Gain is a convenience wrapper for move ordering and quiescence pruning:
// it returns Evaluate's static exchange value of m, the net material the
// mover gains (negative when the exchange loses material).
func Gain(pos *board.Position, m board.Move) board.Score {
	return Evaluate(pos, m)
}

// IsLosing reports whether m's static exchange value is negative, i.e. the
// mover loses material if the exchange is carried to its conclusion.
func IsLosing(pos *board.Position, m board.Move) bool {
	return Evaluate(pos, m) < 0
}
