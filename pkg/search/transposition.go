package search

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/cmoore/talon/pkg/board"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable speeds up search by caching previously computed
// bounds/scores/best moves per position signature. Must be thread-safe:
// entries are written non-atomically, with the signature XORed against the
// rest of the entry's bits on write and verified on read, so a torn read
// under concurrent access is cheaply detected rather than prevented. This
// avoids a pointer indirection and allocation per write, at the cost of
// accepting that detected-but-torn read under race.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move for the given
	// position signature, if present and internally consistent.
	Read(sig board.Signature, ply int) (Bound, int, board.Score, board.Move, bool)
	// Write stores the entry, subject to the table's replacement policy.
	Write(sig board.Signature, bound Bound, ply, depth int, score board.Score, move board.Move)

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
	// DirtyAll advances the age tag, so entries from a previous root search
	// lose replacement priority against equally-deep new entries.
	DirtyAll()
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// entry is one bucket slot: 24 bytes, written/read as three plain
// (non-atomic) uint64 fields. body packs everything but
// the signature; check is sig XOR body, letting a reader that raced a
// writer detect a torn entry instead of trusting garbage.
type entry struct {
	sig   board.Signature
	body  uint64
	check uint64
}

// body layout (low to high bit): bound(2) | age(4) | depth(9) | ply(9) |
// score(20, bias-encoded) | from(8) | to(8) | promotion(4).
func packBody(bound Bound, age uint8, depth, ply int, score board.Score, m board.Move) uint64 {
	const scoreBias = 1 << 19
	s := uint64(int64(score) + scoreBias)
	return uint64(bound) |
		uint64(age&0xF)<<2 |
		uint64(depth&0x1FF)<<6 |
		uint64(ply&0x1FF)<<15 |
		(s&0xFFFFF)<<24 |
		uint64(m.From)<<44 |
		uint64(m.To)<<52 |
		uint64(m.Promotion)<<60
}

func unpackBody(body uint64) (bound Bound, age uint8, depth, ply int, score board.Score, m board.Move) {
	const scoreBias = 1 << 19
	bound = Bound(body & 0x3)
	age = uint8((body >> 2) & 0xF)
	depth = int((body >> 6) & 0x1FF)
	ply = int((body >> 15) & 0x1FF)
	score = board.Score(int64((body>>24)&0xFFFFF) - scoreBias)
	m = board.Move{
		From:      board.Square((body >> 44) & 0xFF),
		To:        board.Square((body >> 52) & 0xFF),
		Promotion: board.PieceType((body >> 60) & 0xF),
	}
	return
}

// table is a direct-mapped transposition table with a small bucket per
// index (§4.7: "small bucket of N entries"). Only From/To/Promotion of the
// best move are stored -- enough for movepicker to find the matching
// pseudo-legal move by coordinates, since Piece/Captured/Flags can all be
// recovered once a move is re-identified in the current position.
type table struct {
	buckets [][bucketSize]entry
	mask    uint64
	used    uint64
	age     uint8
}

const (
	bucketSize   = 4
	bytesPerSlot = 24 // sig + body + check, each a uint64
)

func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	perBucket := uint64(bucketSize) * bytesPerSlot
	buckets := size / perBucket
	if buckets == 0 {
		buckets = 1
	}
	n := uint64(1) << (bits.Len64(buckets) - 1) // round down to a power of two

	logw.Infof(ctx, "Allocating %vMB transposition table with %v buckets of %v entries", size>>20, n, bucketSize)

	return &table{
		buckets: make([][bucketSize]entry, n),
		mask:    n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.buckets)) * bucketSize * bytesPerSlot
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(uint64(len(t.buckets))*bucketSize)
}

func (t *table) DirtyAll() {
	t.age++
}

func (t *table) Read(sig board.Signature, ply int) (Bound, int, board.Score, board.Move, bool) {
	key := uint64(sig) & t.mask
	bucket := &t.buckets[key]

	for i := range bucket {
		e := bucket[i] // value copy: racy readers see a consistent snapshot of this copy
		if e.sig == 0 && e.body == 0 {
			continue
		}
		if e.sig^e.body != e.check {
			continue // torn or corrupt entry: ignore
		}
		if e.sig != sig {
			continue
		}
		bound, _, depth, storedPly, score, m := unpackBody(e.body)
		score = adjustMateFromStorage(score, ply-storedPly)
		return bound, depth, score, m, true
	}
	return 0, 0, 0, board.Move{}, false
}

func (t *table) Write(sig board.Signature, bound Bound, ply, depth int, score board.Score, m board.Move) {
	key := uint64(sig) & t.mask
	bucket := &t.buckets[key]

	storedScore := adjustMateForStorage(score, ply)
	body := packBody(bound, t.age, depth, ply, storedScore, m)
	fresh := entry{sig: sig, body: body, check: sig ^ body}

	slot := -1
	var worst uint64 = 1<<64 - 1
	for i := range bucket {
		e := bucket[i]
		if e.sig == sig || (e.sig == 0 && e.body == 0) {
			slot = i
			break
		}
		pri := replacementValue(e, t.age)
		if pri < worst {
			worst = pri
			slot = i
		}
	}
	if slot < 0 {
		slot = 0
	}
	if bucket[slot].sig == 0 && bucket[slot].body == 0 {
		t.used++
	}
	bucket[slot] = fresh
}

// replacementValue favors deeper, more recent entries (ply + depth<<1),
// with the age tag as the primary key so a fresh root search's entries
// always outrank the previous search's, even at lower depth.
func replacementValue(e entry, currentAge uint8) uint64 {
	if e.sig == 0 && e.body == 0 {
		return 0
	}
	_, age, depth, ply, _, _ := unpackBody(e.body)
	ageRank := uint64(0)
	if age == currentAge {
		ageRank = 1
	}
	return ageRank<<32 | uint64(ply+depth<<1)
}

// adjustMateForStorage/adjustMateFromStorage convert a mate score between
// "distance from the root" (what the search computes) and "distance from
// this node" (what gets stored), per §4.7: "mate scores are normalized to
// be independent of ply."
func adjustMateForStorage(score board.Score, ply int) board.Score {
	if md, ok := score.MateDistance(); ok {
		if score > 0 {
			return board.MateIn(md + ply)
		}
		return board.MatedIn(md + ply)
	}
	return score
}

func adjustMateFromStorage(score board.Score, plyDelta int) board.Score {
	if md, ok := score.MateDistance(); ok {
		if score > 0 {
			return board.MateIn(md - plyDelta)
		}
		return board.MatedIn(md - plyDelta)
	}
	return score
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// NoTranspositionTable is a Nop implementation, used when hash size is 0.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.Signature, int) (Bound, int, board.Score, board.Move, bool) {
	return 0, 0, 0, board.Move{}, false
}
func (NoTranspositionTable) Write(board.Signature, Bound, int, int, board.Score, board.Move) {}
func (NoTranspositionTable) Size() uint64                                                    { return 0 }
func (NoTranspositionTable) Used() float64                                                   { return 0 }
func (NoTranspositionTable) DirtyAll()                                                        {}
