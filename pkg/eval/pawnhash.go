package eval

import (
	"github.com/cmoore/talon/pkg/board"
	"github.com/dgraph-io/ristretto/v2"
)

// pawnHashEntry is what the pawn cache stores per unique pawn signature:
// the per-color structural contribution computed by evaluatePawnStructure,
// so a hit skips every isolated/doubled/backward/passer/candidate/duo walk.
// The entry holds only these two scores; no pawn attack information is
// cached.
type pawnHashEntry struct {
	score [board.NumColors]board.Score
}

// PawnCache memoizes pawn-structure evaluation by pawn signature. Backed by
// ristretto's admission-counted cache, since pawn structure recomputation
// is pure CPU work with a small, high-reuse key space — exactly ristretto's
// target shape — and a plain unbounded map would grow without limit across
// a long session.
type PawnCache struct {
	cache *ristretto.Cache[board.Signature, pawnHashEntry]
}

// NewPawnCache builds a pawn-structure cache sized for maxEntries distinct
// pawn signatures.
func NewPawnCache(maxEntries int64) (*PawnCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[board.Signature, pawnHashEntry]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &PawnCache{cache: cache}, nil
}

// Evaluate returns the pawn-structure score for side, using the cache keyed
// by pos's pawn signature: a hit for either color avoids recomputing the
// side that was already scored alongside the other in a prior probe.
func (c *PawnCache) Evaluate(pos *board.Position, side board.Color) board.Score {
	if c == nil || c.cache == nil {
		return evaluatePawnStructure(pos, side) - evaluatePawnStructure(pos, side.Opponent())
	}

	sig := pos.PawnSignature()
	if entry, ok := c.cache.Get(sig); ok {
		return entry.score[side] - entry.score[side.Opponent()]
	}

	var entry pawnHashEntry
	entry.score[board.White] = evaluatePawnStructure(pos, board.White)
	entry.score[board.Black] = evaluatePawnStructure(pos, board.Black)
	c.cache.Set(sig, entry, 1)

	return entry.score[side] - entry.score[side.Opponent()]
}

// Close releases the cache's background goroutines.
func (c *PawnCache) Close() {
	if c != nil && c.cache != nil {
		c.cache.Close()
	}
}
