package search_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
)

func findMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	parsed, err := board.ParseMove(uci)
	require.NoError(t, err)
	m, ok := board.ResolveMove(pos, parsed.From, parsed.To, parsed.Promotion)
	require.True(t, ok, "move %s not legal", uci)
	return m
}

func TestMovePickerRanksHashMoveFirst(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)

	hash := findMove(t, pos, "g1f3")
	picker := search.NewMovePicker(pos, moves, 0, hash, nil)

	first, ok := picker.Next()
	require.True(t, ok)
	require.True(t, first.Equals(hash))
}

func TestMovePickerRanksWinningCaptureBeforeQuiet(t *testing.T) {
	// White to move: Nxd4 is a free pawn, Nb4 is a quiet move.
	pos, err := fen.Decode("4k3/8/8/8/3p4/8/2N5/4K3 w - - 0 1")
	require.NoError(t, err)
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)

	capture := findMove(t, pos, "c2d4")
	quiet := findMove(t, pos, "c2b4")

	picker := search.NewMovePicker(pos, moves, 0, board.Move{}, nil)
	all := picker.All()

	var captureIdx, quietIdx int
	for i, m := range all {
		if m.Equals(capture) {
			captureIdx = i
		}
		if m.Equals(quiet) {
			quietIdx = i
		}
	}
	require.Less(t, captureIdx, quietIdx)
}

func TestMovePickerRemainingDecreasesOnNext(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)

	picker := search.NewMovePicker(pos, moves, 0, board.Move{}, nil)
	before := picker.Remaining()
	_, ok := picker.Next()
	require.True(t, ok)
	require.Equal(t, before-1, picker.Remaining())
}

func TestCapturesFiltersNonCaptures(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/3p4/8/2N5/4K3 w - - 0 1")
	require.NoError(t, err)
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)

	captures := search.Captures(moves)
	require.NotEmpty(t, captures)
	for _, m := range captures {
		require.True(t, m.IsCapture() || m.IsEnPassant())
	}
}
