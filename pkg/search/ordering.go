package search

import "github.com/cmoore/talon/pkg/board"

// numPieces indexes the history table by packed Piece value (type<<1|color),
// so NumPieceTypes*2 covers every real piece plus the unused NoPiece slot.
const numPieces = board.NumPieceTypes * 2

// Ordering holds the per-search dynamic move-ordering state: a global
// from-piece/to-square history table, two killer-move slots per ply
// (quiet killers and check-evasion killers kept separately), and fail-high
// attempt/success statistics bucketed by move index, grounded on
// original_source/dynamic.c's g_HistoryCounters/mvKiller/mvKillerEscapes and
// its per-move-index fail-high counters. Not safe for concurrent use by
// more than one search goroutine; callers running parallel root searches
// should give each its own Ordering.
type Ordering struct {
	history [numPieces][128]uint32

	killers       [board.MaxPly][2]board.Move
	killerEscapes [board.MaxPly][2]board.Move

	failHighAttempts  [moveIndexBuckets]uint32
	failHighSuccesses [moveIndexBuckets]uint32
}

// moveIndexBuckets caps the fail-high statistics table; move indices at or
// beyond it share the last bucket.
const moveIndexBuckets = 32

func moveIndexBucket(moveIndex int) int {
	if moveIndex > moveIndexBuckets {
		return moveIndexBuckets - 1
	}
	return moveIndex - 1
}

// NewOrdering returns an empty ordering table, ready for a fresh search.
func NewOrdering() *Ordering {
	return &Ordering{}
}

// Clear zeroes the history table and killer slots, required at the start
// of a new game or whenever a new root position is loaded (dynamic.c's
// "All of these tables must be cleared when a new game is started").
func (o *Ordering) Clear() {
	*o = Ordering{}
}

// historyIndex returns the table slot for a quiet move: (piece, to-square).
func historyIndex(m board.Move) (int, board.Square) {
	return int(m.Piece), m.To
}

// History returns the current history weight for a quiet move, used to
// rank quiet moves behind captures/killers during move selection.
func (o *Ordering) History(m board.Move) uint32 {
	p, sq := historyIndex(m)
	return o.history[p][sq]
}

// historyCap bounds the history counters well below where they could ever
// be mistaken for another ordering key when combined into one sort score;
// once any slot reaches it every slot is halved, mirroring dynamic.c's
// overflow guard.
const historyCap = 1 << 24

// recordHistory increases a quiet move's ranking weight by roughly
// remaining_depth^2, matching dynamic.c's _IncrementMoveHistoryCounter.
func (o *Ordering) recordHistory(m board.Move, depth int) {
	p, sq := historyIndex(m)
	bonus := uint32(depth+1) * uint32(depth+1)

	o.history[p][sq] += bonus
	if o.history[p][sq] >= historyCap {
		for i := range o.history {
			for j := range o.history[i] {
				o.history[i][j] >>= 1
			}
		}
	}
}

// penalizeHistory decreases a quiet move's ranking weight after it was
// tried and failed to produce a cutoff, matching
// dynamic.c's _DecrementMoveHistoryCounter.
func (o *Ordering) penalizeHistory(m board.Move, depth int) {
	p, sq := historyIndex(m)
	penalty := uint32(depth/4 + 1)
	if o.history[p][sq] >= penalty {
		o.history[p][sq] -= penalty
	} else {
		o.history[p][sq] = 0
	}
}

// Killers returns the two quiet killer moves recorded at ply, most recent
// first.
func (o *Ordering) Killers(ply int) [2]board.Move {
	return o.killers[ply]
}

// KillerEscapes returns the two check-evasion killer moves recorded at
// ply, most recent first.
func (o *Ordering) KillerEscapes(ply int) [2]board.Move {
	return o.killerEscapes[ply]
}

// IsKiller reports whether m is recorded as either kind of killer at ply.
func (o *Ordering) IsKiller(ply int, m board.Move) bool {
	for _, k := range o.killers[ply] {
		if !k.IsNull() && k.Equals(m) {
			return true
		}
	}
	for _, k := range o.killerEscapes[ply] {
		if !k.IsNull() && k.Equals(m) {
			return true
		}
	}
	return false
}

// recordKiller pushes m onto the appropriate killer slot for ply (check
// evasions and ordinary quiet cutoffs are tracked separately, matching
// dynamic.c's split between mvKiller and mvKillerEscapes).
func (o *Ordering) recordKiller(ply int, m board.Move) {
	slots := &o.killers[ply]
	if m.EscapesCheck() {
		slots = &o.killerEscapes[ply]
	}
	if slots[0].Equals(m) {
		return
	}
	slots[1] = slots[0]
	slots[0] = m
}

// Update records the outcome of a beta cutoff (or an improving root move):
// best is rewarded with a killer slot and a history bonus if quiet, and
// every quiet move tried before it at this node is penalized, matching
// dynamic.c's UpdateDynamicMoveOrdering. moveIndex is best's 1-based
// position in the move loop, used to update the fail-high statistics
// late-move pruning reads.
func (o *Ordering) Update(ply, depth int, best board.Move, tried []board.Move, moveIndex int) {
	if best.IsQuiet() {
		o.recordKiller(ply, best)
		o.recordHistory(best, depth)
	}
	for _, m := range tried {
		if m.Equals(best) {
			continue
		}
		if m.IsQuiet() {
			o.penalizeHistory(m, depth)
		}
	}
	o.failHighSuccesses[moveIndexBucket(moveIndex)]++
}

// RecordMoveTried notes that moveIndex (1-based) was searched at some node,
// whether or not it goes on to produce a cutoff there, so late-move
// pruning's rate estimate reflects attempts, not just successes.
func (o *Ordering) RecordMoveTried(moveIndex int) {
	o.failHighAttempts[moveIndexBucket(moveIndex)]++
}

// lateMovePruning parameters: only quiet, non-checking moves late in a
// node's move loop, at shallow remaining depth, with enough samples behind
// the bucket's fail-high rate to trust it, grounded on dynamic.c's use of
// the same counters to gate its late-move pruning.
const (
	lmpMaxDepth     = 2 * OnePly
	lmpMinMoveIndex = 12
	lmpMinSamples   = 500
	lmpRatePermille = 10 // prune once successes/attempts drops below 1%
)

// ShouldPruneLateMove reports whether the moveIndex'th quiet move at this
// remaining depth has, across the whole search so far, produced a cutoff
// rarely enough to skip outright rather than searched. Never prunes without
// enough samples to trust the rate.
func (o *Ordering) ShouldPruneLateMove(moveIndex, depth int) bool {
	if depth > lmpMaxDepth || moveIndex <= lmpMinMoveIndex {
		return false
	}
	b := moveIndexBucket(moveIndex)
	attempts := o.failHighAttempts[b]
	if attempts < lmpMinSamples {
		return false
	}
	return uint64(o.failHighSuccesses[b])*1000 < uint64(attempts)*lmpRatePermille
}
