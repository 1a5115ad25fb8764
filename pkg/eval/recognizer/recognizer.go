// Package recognizer implements interior-node recognition: closed-form
// scores for a small registry of simple endgame material signatures,
// consulted before full evaluation runs. Grounded on
// original_source/recogn.c's per-material recognizer functions
// (_RecognizeKK, _RecognizeKBK, _RecognizeKNK, _RecognizeKBNK, _RecognizeKNKP,
// _RecognizeKBKP, _RecognizeKPK, ...), each checked in turn rather than the
// original's signature-indexed jump table, since Go has no equivalent of its
// RECOGN_INDEX bit-packed dispatch.
package recognizer

import "github.com/cmoore/talon/pkg/board"

// Kind reports how confidently a recognizer's Score should be trusted.
type Kind uint8

const (
	NotRecognized Kind = iota
	Exact
	LowerBound
	UpperBound
)

// Result is what a recognizer (or an external tablebase oracle) returns.
type Result struct {
	Kind  Kind
	Score board.Score // always from White's perspective
}

// Prober is the contract for an external endgame-tablebase oracle,
// narrowed to the single method this layer needs. See DESIGN.md for
// grounding.
type Prober interface {
	Probe(pos *board.Position) (board.Score, bool)
}

type materialCount struct {
	pawns, knights, bishops, rooks, queens int
}

func countMaterial(pos *board.Position, c board.Color) materialCount {
	return materialCount{
		pawns:   len(pos.Pawns(c)),
		knights: pos.CountOfType(c, board.Knight),
		bishops: pos.CountOfType(c, board.Bishop),
		rooks:   pos.CountOfType(c, board.Rook),
		queens:  pos.CountOfType(c, board.Queen),
	}
}

func (m materialCount) nonPawns() int { return m.knights + m.bishops + m.rooks + m.queens }
func (m materialCount) bare() bool    { return m.nonPawns() == 0 && m.pawns == 0 }
func (m materialCount) isOneMinor() bool {
	return m.pawns == 0 && m.rooks == 0 && m.queens == 0 && m.knights+m.bishops == 1
}
func (m materialCount) isOneBishop() bool {
	return m.pawns == 0 && m.rooks == 0 && m.queens == 0 && m.knights == 0 && m.bishops == 1
}
func (m materialCount) isOneKnight() bool {
	return m.pawns == 0 && m.rooks == 0 && m.queens == 0 && m.bishops == 0 && m.knights == 1
}
func (m materialCount) isBishopAndKnight() bool {
	return m.pawns == 0 && m.rooks == 0 && m.queens == 0 && m.bishops == 1 && m.knights == 1
}

// kingAndPawnsOnly reports a side carrying no pieces at all, any number of
// pawns (zero included) — the shape both sides of a KPK/KPKP ending take.
func (m materialCount) kingAndPawnsOnly() bool { return m.nonPawns() == 0 }

// onePawnOnly reports a side with exactly one pawn and no pieces, the
// "weak" shape in the KNKP/KBKP family.
func (m materialCount) onePawnOnly() bool { return m.nonPawns() == 0 && m.pawns == 1 }

// knightsOnlyNoPawns reports a side carrying one or more knights, no
// bishops/rooks/queens, and no pawns of its own — the "strong" shape in the
// KNKP family.
func (m materialCount) knightsOnlyNoPawns() bool {
	return m.pawns == 0 && m.bishops == 0 && m.rooks == 0 && m.queens == 0 && m.knights >= 1
}

// bishopsOnly reports a side carrying one or more bishops, no
// knights/rooks/queens, with or without its own pawns — the "strong" shape
// in the KBKP and KBPK families.
func (m materialCount) bishopsOnly() bool {
	return m.knights == 0 && m.rooks == 0 && m.queens == 0 && m.bishops >= 1
}

// Eligible reports whether pos is simple enough for recognizer lookup at
// all: the whole layer is gated on both sides having at most three
// non-pawns.
func Eligible(pos *board.Position) bool {
	return countMaterial(pos, board.White).nonPawns() <= 3 && countMaterial(pos, board.Black).nonPawns() <= 3
}

// Probe consults an external tablebase (if given) first, then the built-in
// registry. It returns NotRecognized if pos is outside both.
func Probe(pos *board.Position, prober Prober) Result {
	if prober != nil {
		if score, ok := prober.Probe(pos); ok {
			return Result{Kind: Exact, Score: score}
		}
	}
	if !Eligible(pos) {
		return Result{Kind: NotRecognized}
	}

	white := countMaterial(pos, board.White)
	black := countMaterial(pos, board.Black)

	if white.bare() && black.bare() {
		return Result{Kind: Exact, Score: 0} // KK
	}

	// KBK / KNK: a lone minor cannot force mate against a bare king.
	if (white.isOneMinor() && black.bare()) || (black.isOneMinor() && white.bare()) {
		return Result{Kind: Exact, Score: 0}
	}

	// KBKB / KNKN: same-minor endings are drawn barring an already-cornered
	// king, which full search resolves on its own (original_source/recogn.c
	// recognizes the common case and falls through to UNRECOGNIZED for the
	// cornered-king exception; a king on a corner square falls through here
	// too).
	cornered := cornerDistance(pos.KingSquare(board.White)) == 0 || cornerDistance(pos.KingSquare(board.Black)) == 0
	if white.isOneBishop() && black.isOneBishop() && !cornered {
		return Result{Kind: Exact, Score: 0}
	}
	if white.isOneKnight() && black.isOneKnight() && !cornered {
		return Result{Kind: Exact, Score: 0}
	}

	// KBNK: a known, if technically delicate, forced win. A lower/upper
	// bound encourages the search toward it without claiming an exact mate
	// score, since the precise mating square depends on bishop color.
	if white.isBishopAndKnight() && black.bare() {
		return Result{Kind: LowerBound, Score: bishopKnightMateScore(pos, board.White)}
	}
	if black.isBishopAndKnight() && white.bare() {
		return Result{Kind: UpperBound, Score: bishopKnightMateScore(pos, board.Black)}
	}

	// KB+P*K: bishop and pawn(s) against a bare king, with the bishop the
	// wrong color for its own rook pawn(s) — a known draw once the
	// defending king reaches the queening corner.
	if white.bishopsOnly() && black.bare() && wrongBishopCornerDraw(pos, board.White) {
		return Result{Kind: Exact, Score: 0}
	}
	if black.bishopsOnly() && white.bare() && wrongBishopCornerDraw(pos, board.Black) {
		return Result{Kind: Exact, Score: 0}
	}

	// KB+KP+: a lone bishop against a lone pawn. At best a draw for the
	// bishop side, unless the defending king is already cornered, in which
	// case a mating net may be brewing and full search is left to resolve it.
	if white.bishopsOnly() && white.pawns == 0 && black.onePawnOnly() {
		if r, ok := bishopVsPawnBound(pos, board.White, white); ok {
			return r
		}
	}
	if black.bishopsOnly() && black.pawns == 0 && white.onePawnOnly() {
		if r, ok := bishopVsPawnBound(pos, board.Black, black); ok {
			return r
		}
	}

	// KN+KP+: a lone knight (or two) against a lone pawn is drawn unless
	// the defending king has wandered to the board's edge, where the
	// knight-side king may be able to shoulder it into a mating net.
	if white.knightsOnlyNoPawns() && black.onePawnOnly() {
		if r, ok := knightVsPawnBound(pos, board.White, white); ok {
			return r
		}
	}
	if black.knightsOnlyNoPawns() && white.onePawnOnly() {
		if r, ok := knightVsPawnBound(pos, board.Black, black); ok {
			return r
		}
	}

	// KP+K / KP+KP+: lone-pawn endings, resolved via the critical-square
	// (key-square) rule when one side has a single passer and the other is
	// pawnless; left to full search when both sides still have pawns, since
	// that requires a passed-pawn race evaluation this layer doesn't run.
	if white.kingAndPawnsOnly() && black.kingAndPawnsOnly() && (white.pawns > 0 || black.pawns > 0) {
		if r, ok := pawnEndingBound(pos, white, black); ok {
			return r
		}
	}

	return Result{Kind: NotRecognized}
}

// perspectiveKind translates a bound stated in strong's favor (lowerForStrong
// true meaning "strong is guaranteed at least this") into the White-relative
// Kind Result always reports.
func perspectiveKind(strong board.Color, lowerForStrong bool) Kind {
	if lowerForStrong == (strong == board.White) {
		return LowerBound
	}
	return UpperBound
}

// drawBoundFor states "at best a draw for strong": an upper bound when it is
// strong's move (strong cannot improve on the very next ply), a lower bound
// otherwise.
func drawBoundFor(pos *board.Position, strong board.Color) Result {
	lowerForStrong := pos.Turn() != strong
	return Result{Kind: perspectiveKind(strong, lowerForStrong), Score: 0}
}

// atLeastDrawFor states "strong is guaranteed at least a draw, possibly
// more" — the polarity used for pawn races this layer cannot fully resolve
// without a passed-pawn hash lookup.
func atLeastDrawFor(pos *board.Position, strong board.Color) Result {
	lowerForStrong := pos.Turn() == strong
	return Result{Kind: perspectiveKind(strong, lowerForStrong), Score: 0}
}

var boardCorners = [4]board.Square{
	board.NewSquare(board.FileA, board.Rank1),
	board.NewSquare(board.FileA, board.Rank8),
	board.NewSquare(board.FileH, board.Rank1),
	board.NewSquare(board.FileH, board.Rank8),
}

func cornerDistance(sq board.Square) int {
	d := board.Distance(sq, boardCorners[0])
	for _, c := range boardCorners[1:] {
		if cd := board.Distance(sq, c); cd < d {
			d = cd
		}
	}
	return d
}

func onEdge(sq board.Square) bool {
	return sq.File() == board.FileA || sq.File() == board.FileH || sq.Rank() == board.Rank1 || sq.Rank() == board.Rank8
}

func cornerIsLight(sq board.Square) bool {
	return (int(sq.File())+int(sq.Rank()))%2 == 1
}

// wrongBishopCornerDraw reports whether strong's bishop(s) and rook pawn(s)
// (all on the a- or h-file) are the wrong color to control the queening
// corner, with the defending king already there or adjacent to claim it.
func wrongBishopCornerDraw(pos *board.Position, strong board.Color) bool {
	weak := strong.Opponent()
	pawns := pos.Pawns(strong)
	if len(pawns) == 0 {
		return false
	}

	onFileA, onFileH := true, true
	for _, p := range pawns {
		if p.File() != board.FileA {
			onFileA = false
		}
		if p.File() != board.FileH {
			onFileH = false
		}
	}
	if onFileA == onFileH {
		return false // mixed pawn files: the extra pawn(s) can win on their own file
	}

	file := board.FileA
	if onFileH {
		file = board.FileH
	}
	promRank := board.Rank8
	if strong == board.Black {
		promRank = board.Rank1
	}
	corner := board.NewSquare(file, promRank)

	if board.Distance(pos.KingSquare(weak), corner) > 1 {
		return false
	}

	if cornerIsLight(corner) {
		return pos.LightBishops(strong) == 0
	}
	return pos.DarkBishops(strong) == 0
}

func bishopVsPawnBound(pos *board.Position, strong board.Color, strongMat materialCount) (Result, bool) {
	if strongMat.bishops > 1 {
		return Result{}, false
	}
	if cornerDistance(pos.KingSquare(strong.Opponent())) == 0 {
		return Result{}, false // defending king already cornered: leave the mating-net question to full search
	}
	return drawBoundFor(pos, strong), true
}

func knightVsPawnBound(pos *board.Position, strong board.Color, strongMat materialCount) (Result, bool) {
	if strongMat.knights > 2 {
		return Result{}, false
	}
	if onEdge(pos.KingSquare(strong.Opponent())) {
		return Result{}, false
	}
	return drawBoundFor(pos, strong), true
}

// pawnCriticalSquares returns the "key squares" of a passed pawn: occupying
// any of them with the friendly king is enough to force the pawn home. A
// rook pawn has only one, since the file beside it runs off the board.
func pawnCriticalSquares(strong board.Color, pawn board.Square) []board.Square {
	file := int(pawn.File())
	rank := int(pawn.Rank())

	keyRank := rank + 2
	if strong == board.Black {
		keyRank = rank - 2
	}
	if strong == board.White && 7-rank < 3 {
		keyRank = 6 // pawn is close enough to queen that the key squares sit on the 7th rank
	}
	if strong == board.Black && rank < 3 {
		keyRank = 1
	}

	center := board.NewSquare(board.File(file), board.Rank(keyRank))
	if file == int(board.FileA) || file == int(board.FileH) {
		return []board.Square{center, center, center}
	}
	return []board.Square{
		board.NewSquare(board.File(file-1), board.Rank(keyRank)),
		center,
		board.NewSquare(board.File(file+1), board.Rank(keyRank)),
	}
}

// pawnEndingBound implements the KP+K / KP+KP+ recognizer: a forced win
// once the friendly king beats the defending king to the pawn and to one of
// its critical squares, otherwise at best (for the side with the extra
// pawn(s)) a draw.
func pawnEndingBound(pos *board.Position, white, black materialCount) (Result, bool) {
	if white.pawns > 0 && black.pawns > 0 {
		return Result{}, false // needs a passed-pawn race evaluation this layer doesn't run
	}

	strong, strongMat := board.White, white
	if white.pawns == 0 {
		strong, strongMat = board.Black, black
	}
	weak := strong.Opponent()

	if strongMat.pawns > 1 {
		return atLeastDrawFor(pos, strong), true
	}

	pawn := pos.Pawns(strong)[0]
	strongKing, weakKing := pos.KingSquare(strong), pos.KingSquare(weak)

	if board.Distance(strongKing, pawn) <= board.Distance(weakKing, pawn) {
		weakMovesFirst := pos.Turn() == weak
		for _, critical := range pawnCriticalSquares(strong, pawn) {
			sd := board.Distance(strongKing, critical)
			wd := board.Distance(weakKing, critical)
			if weakMovesFirst {
				if wd > 0 {
					wd--
				}
				sd += 2
			}
			if sd < wd {
				return queeningBound(pos, strong, pawn), true
			}
		}
	}

	return atLeastDrawFor(pos, strong), true
}

// queeningBound scores a won pawn ending: material plus a fresh queen,
// discounted by how many ranks the pawn still has to travel.
func queeningBound(pos *board.Position, strong board.Color, pawn board.Square) Result {
	weak := strong.Opponent()
	promRank := board.Rank8
	if strong == board.Black {
		promRank = board.Rank1
	}
	rankDist := int(pawn.Rank()) - int(promRank)
	if rankDist < 0 {
		rankDist = -rankDist
	}

	balance := (pos.PawnMaterial(strong) + pos.NonPawnMaterial(strong)) -
		(pos.PawnMaterial(weak) + pos.NonPawnMaterial(weak))
	score := balance + board.PieceValue(board.Queen) + 2*board.PieceValue(board.Pawn) - board.Score(rankDist*32)
	if strong == board.Black {
		score = -score
	}
	return Result{Kind: perspectiveKind(strong, true), Score: score}
}

// bishopKnightMateScore rewards strong for having already pushed the weak
// king toward the board's edge, a cheap proxy for "is this KBNK position
// converging on its forced-mate corner."
func bishopKnightMateScore(pos *board.Position, strong board.Color) board.Score {
	weak := strong.Opponent()
	king := pos.KingSquare(weak)
	centralization := distToEdge(int(king.File())) + distToEdge(int(king.Rank())) // 0 (corner) .. 6 (center)

	score := board.PieceValue(board.Bishop) + board.PieceValue(board.Knight) + board.Score(6-centralization)*10
	if strong == board.Black {
		score = -score
	}
	return score
}

func distToEdge(coord int) int {
	d := coord
	if 7-coord < d {
		d = 7 - coord
	}
	return d
}
