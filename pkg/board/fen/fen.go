// Package fen contains utilities for reading and writing positions in
// Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cmoore/talon/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN record into a Position. All six fields land on the
// returned Position: piece placement, side to move, castling rights,
// en-passant target, fifty-move counter and full-move number. A record
// without exactly one king per side is rejected.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(s string) (*board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: %q", s)
	}

	pos := board.NewPosition()

	// (1) Piece placement, rank 8 down to rank 1, file a through h per rank.

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid number of ranks in FEN: %q", s)
	}
	for i, rankStr := range ranks {
		rank := board.Rank(7 - i)
		file := board.FileA
		for _, r := range rankStr {
			switch {
			case unicode.IsDigit(r):
				file += board.File(r - '0')
			case unicode.IsLetter(r):
				if file > board.FileH {
					return nil, fmt.Errorf("rank overflow in FEN: %q", s)
				}
				piece, ok := board.ParsePiece(r)
				if !ok {
					return nil, fmt.Errorf("invalid piece %q in FEN: %q", r, s)
				}
				pos.Put(board.NewSquare(file, rank), piece)
				file++
			default:
				return nil, fmt.Errorf("invalid character %q in FEN: %q", r, s)
			}
		}
		if file != board.FileH+1 {
			return nil, fmt.Errorf("invalid number of squares in rank %d of FEN: %q", i+1, s)
		}
	}

	// (2) Active color.

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", s)
	}
	pos.SetTurn(turn)

	// (3) Castling availability.

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling in FEN: %q", s)
	}
	pos.SetCastling(castling)

	// (4) En-passant target square.

	if parts[3] != "-" {
		sq, err := board.ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: %q: %w", s, err)
		}
		pos.SetEnPassant(sq)
	}

	// (5) Halfmove (fifty-move) clock.

	fifty, err := strconv.Atoi(parts[4])
	if err != nil || fifty < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", s)
	}
	pos.SetFifty(fifty)

	// (6) Fullmove number.

	full, err := strconv.Atoi(parts[5])
	if err != nil || full < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", s)
	}
	pos.SetFullMoveNumber(full)

	if pos.CountOfType(board.White, board.King) != 1 || pos.CountOfType(board.Black, board.King) != 1 {
		return nil, fmt.Errorf("invalid number of kings in FEN: %q", s)
	}

	return pos, nil
}

// Encode renders a Position back into FEN notation.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.FileA; f <= board.FileH; f++ {
			sq := board.NewSquare(f, board.Rank(r))
			piece, ok := pos.PieceAt(sq)
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(piece.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), pos.Turn(), printCastling(pos.Castling()), ep, pos.Fifty(), pos.FullMoveNumber())
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}
