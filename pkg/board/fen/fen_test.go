package fen_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			pos, err := fen.Decode(in)
			require.NoError(t, err)
			require.Equal(t, in, fen.Encode(pos))
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few sections", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"},
		{"too few ranks", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1"},
		{"rank overflow", "rnbqkbnrr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"invalid piece", "xnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fen.Decode(tt.fen)
			require.Error(t, err)
		})
	}
}

func TestDecodeSideToMoveAndCastling(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/R3K2R b Kq - 3 12")
	require.NoError(t, err)

	require.Equal(t, board.Black, pos.Turn())
	require.Equal(t, 3, pos.Fifty())
	require.Equal(t, 12, pos.FullMoveNumber())
	require.True(t, pos.Castling().IsAllowed(board.WhiteKingSideCastle))
	require.False(t, pos.Castling().IsAllowed(board.WhiteQueenSideCastle))
	require.True(t, pos.Castling().IsAllowed(board.BlackQueenSideCastle))
	require.False(t, pos.Castling().IsAllowed(board.BlackKingSideCastle))
}

func TestDecodeEnPassantTarget(t *testing.T) {
	pos, err := fen.Decode("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	require.NoError(t, err)

	sq, ok := pos.EnPassant()
	require.True(t, ok)
	require.Equal(t, "d6", sq.String())
}
