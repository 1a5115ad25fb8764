package see_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/see"
	"github.com/stretchr/testify/require"
)

func findMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	parsed, err := board.ParseMove(uci)
	require.NoError(t, err)
	m, ok := board.ResolveMove(pos, parsed.From, parsed.To, parsed.Promotion)
	require.True(t, ok, "move %s not legal in position", uci)
	return m
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want board.Score
	}{
		{
			name: "rook captures undefended pawn",
			fen:  "4k3/8/8/8/3p4/8/3R4/4K3 w - - 0 1",
			move: "d2d4",
			want: board.PieceValue(board.Pawn),
		},
		{
			name: "pawn takes pawn, undefended",
			fen:  "4k3/8/8/8/3p4/4P3/8/4K3 w - - 0 1",
			move: "e3d4",
			want: board.PieceValue(board.Pawn),
		},
		{
			name: "knight takes pawn defended by another pawn, loses the knight",
			fen:  "4k3/8/8/2p5/3p4/8/2N5/4K3 w - - 0 1",
			move: "c2d4",
			want: board.PieceValue(board.Pawn) - board.PieceValue(board.Knight),
		},
		{
			name: "rook takes pawn defended by pawn, loses the exchange",
			fen:  "4k3/8/1p6/p7/8/8/8/R3K3 w - - 0 1",
			move: "a1a5",
			want: board.PieceValue(board.Pawn) - board.PieceValue(board.Rook),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := fen.Decode(tt.fen)
			require.NoError(t, err)
			m := findMove(t, pos, tt.move)
			require.Equal(t, tt.want, see.Evaluate(pos, m))
		})
	}
}

func TestEvaluateKingCannotRecaptureIntoDefendedSquare(t *testing.T) {
	// White knight takes a black knight on d4. The only black piece
	// attacking d4 afterward is the black king on d5; White's queen on d1
	// still attacks d4 through the open d-file, so the king may not
	// "recapture" there. The exchange must stop after White's initial
	// capture, winning the knight outright.
	pos, err := fen.Decode("8/8/8/3k4/3n4/1N6/8/3Q2K1 w - - 0 1")
	require.NoError(t, err)
	m := findMove(t, pos, "b3d4")
	require.Equal(t, board.PieceValue(board.Knight), see.Evaluate(pos, m))
}

func TestEvaluateNonCaptureIsZero(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	m := findMove(t, pos, "e2e4")
	require.Equal(t, board.Score(0), see.Evaluate(pos, m))
}

func TestIsLosing(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/2p5/3p4/8/2N5/4K3 w - - 0 1")
	require.NoError(t, err)
	m := findMove(t, pos, "c2d4")
	require.True(t, see.IsLosing(pos, m))
}
