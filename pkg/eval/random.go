package eval

import (
	"context"
	"math/rand"

	"github.com/cmoore/talon/pkg/board"
)

// Random adds a small amount of noise to an evaluation, so that repeated
// games between otherwise-identical settings do not all play out the same
// way. The limit specifies how many centipawns to add/remove, in the range
// [-limit/2, limit-1-limit/2]. A zero-value Random always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, pos *board.Position) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}
