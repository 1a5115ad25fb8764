package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares, bit k set iff a piece occupies square
// k under rank-1-to-rank-8, file-A-to-H ordering — i.e. bit Square.Index64().
// It backs pawn-structure masks, attack-counter summaries, and the bit-scan
// primitives below; the 0x88 Position itself does not use Bitboard for piece
// placement (see DESIGN.md).
type Bitboard uint64

const EmptyBitboard Bitboard = 0

func BitMask(sq Square) Bitboard {
	return Bitboard(1) << uint(sq.Index64())
}

func (b Bitboard) IsSet(sq Square) bool {
	return b&BitMask(sq) != 0
}

func (b Bitboard) Set(sq Square) Bitboard {
	return b | BitMask(sq)
}

func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ BitMask(sq)
}

// CountSet returns the number of set bits.
func (b Bitboard) CountSet() int {
	return bits.OnesCount64(uint64(b))
}

// FirstSet is first_set: the lowest-indexed set bit. ok is false for the
// empty bitboard, in which case the returned square is InvalidSquare.
func (b Bitboard) FirstSet() (Square, bool) {
	if b == 0 {
		return InvalidSquare, false
	}
	return SquareFromIndex64(bits.TrailingZeros64(uint64(b))), true
}

// LastSet is last_set: the highest-indexed set bit.
func (b Bitboard) LastSet() (Square, bool) {
	if b == 0 {
		return InvalidSquare, false
	}
	return SquareFromIndex64(63 - bits.LeadingZeros64(uint64(b))), true
}

// PopFirst clears and returns the lowest-indexed set bit.
func (b Bitboard) PopFirst() (Square, Bitboard, bool) {
	sq, ok := b.FirstSet()
	if !ok {
		return InvalidSquare, b, false
	}
	return sq, b.Clear(sq), true
}

// ToSquares enumerates the set squares, lowest index first.
func (b Bitboard) ToSquares() []Square {
	ret := make([]Square, 0, b.CountSet())
	for sq, ok := b.FirstSet(); ok; sq, ok = b.FirstSet() {
		ret = append(ret, sq)
		b = b.Clear(sq)
	}
	return ret
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for r := int(Rank8); r >= int(Rank1); r-- {
		for f := FileA; f <= FileH; f++ {
			sq := NewSquare(f, Rank(r))
			if b.IsSet(sq) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		if r > int(Rank1) {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// --- portable reference implementations of the hardware bit-scan
// primitives above; nothing in this module calls them ---

const deBruijn64 = 0x03f79d71b4cb0a89

var deBruijnIndex64 = [64]uint{
	0, 1, 48, 2, 57, 49, 28, 3,
	61, 58, 50, 42, 38, 29, 17, 4,
	62, 55, 59, 36, 53, 51, 43, 22,
	45, 39, 33, 30, 24, 18, 12, 5,
	63, 47, 56, 27, 60, 41, 37, 16,
	54, 35, 52, 21, 44, 32, 23, 11,
	46, 26, 40, 15, 34, 20, 31, 10,
	25, 14, 19, 9, 13, 8, 7, 6,
}

// firstSetDeBruijn is the portable de Bruijn reference implementation of
// FirstSet, kept separate from the hardware-instruction path.
func firstSetDeBruijn(bb uint64) (uint, bool) {
	if bb == 0 {
		return 0, false
	}
	isolated := bb & (-bb)
	return deBruijnIndex64[(isolated*deBruijn64)>>58], true
}

// lastSetPortable is the portable (loop-based) reference for LastSet.
func lastSetPortable(bb uint64) (uint, bool) {
	if bb == 0 {
		return 0, false
	}
	var idx uint
	for bb != 0 {
		idx++
		bb >>= 1
	}
	return idx - 1, true
}

// countSetPortable is the portable (Kernighan) reference for CountSet.
func countSetPortable(bb uint64) int {
	count := 0
	for bb != 0 {
		bb &= bb - 1
		count++
	}
	return count
}
