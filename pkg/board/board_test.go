package board_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/stretchr/testify/require"
)

func perft(t *testing.T, b *board.Board, depth int) int64 {
	t.Helper()
	if depth == 0 {
		return 1
	}
	var nodes int64
	for _, m := range board.GenerateMoves(b.Position(), board.GenerateDontScore) {
		if !b.PushMove(m) {
			continue
		}
		nodes += perft(t, b, depth-1)
		b.PopMove()
	}
	return nodes
}

func TestPerftInitialPosition(t *testing.T) {
	// Well-known perft node counts from the standard starting position.
	tests := []struct {
		depth int
		want  int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	for _, tt := range tests {
		require.Equal(t, tt.want, perft(t, b, tt.depth), "depth=%d", tt.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	// The "Kiwipete" position, a standard perft stress test covering
	// castling, en passant and promotions.
	pos, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	require.Equal(t, int64(48), perft(t, b, 1))
	require.Equal(t, int64(2039), perft(t, b, 2))
}

func TestPushMovePopMoveRoundTrip(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	before := fen.Encode(b.Position())

	m, ok := board.ResolveMove(b.Position(), mustSquare(t, "e2"), mustSquare(t, "e4"), board.NoPieceType)
	require.True(t, ok)
	require.True(t, b.PushMove(m))
	require.NotEqual(t, before, fen.Encode(b.Position()))

	popped, ok := b.PopMove()
	require.True(t, ok)
	require.Equal(t, m, popped)
	require.Equal(t, before, fen.Encode(b.Position()))
}

func TestPushMoveRejectsIllegalMove(t *testing.T) {
	// PushMove takes pseudo-legal moves and rejects those that leave the
	// mover's own king in check: the bishop on e2 is pinned by the rook on e7.
	pos, err := fen.Decode("4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	bishop, _ := board.ParsePiece('B')
	illegal := board.Move{From: mustSquare(t, "e2"), To: mustSquare(t, "d3"), Piece: bishop}
	require.False(t, b.PushMove(illegal))
}

func TestBoardForkIsIndependent(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	fork := b.Fork()

	m, ok := board.ResolveMove(fork.Position(), mustSquare(t, "e2"), mustSquare(t, "e4"), board.NoPieceType)
	require.True(t, ok)
	require.True(t, fork.PushMove(m))

	require.Equal(t, fen.Initial, fen.Encode(b.Position()))
	require.NotEqual(t, fen.Initial, fen.Encode(fork.Position()))
}

func TestThreefoldRepetitionIsDrawn(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, uci := range shuffle {
			parsed, err := board.ParseMove(uci)
			require.NoError(t, err)
			m, ok := board.ResolveMove(b.Position(), parsed.From, parsed.To, parsed.Promotion)
			require.True(t, ok)
			require.True(t, b.PushMove(m))
		}
	}

	require.Equal(t, board.Draw, b.Result().Outcome)
	require.Equal(t, board.Repetition3, b.Result().Reason)
}

func mustSquare(t *testing.T, s string) board.Square {
	t.Helper()
	sq, err := board.ParseSquare(s)
	require.NoError(t, err)
	return sq
}
