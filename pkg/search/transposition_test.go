package search_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTableWriteRead(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)

	sig := board.Signature(0xC0FFEE)
	m := board.Move{From: board.Square(1), To: board.Square(2)}
	tt.Write(sig, search.ExactBound, 0, 6, board.Score(37), m)

	bound, depth, score, best, ok := tt.Read(sig, 0)
	require.True(t, ok)
	require.Equal(t, search.ExactBound, bound)
	require.Equal(t, 6, depth)
	require.Equal(t, board.Score(37), score)
	require.True(t, best.Equals(m))
}

func TestTranspositionTableMissReturnsFalse(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)

	_, _, _, _, ok := tt.Read(board.Signature(0xDEAD), 0)
	require.False(t, ok)
}

func TestNoTranspositionTableAlwaysMisses(t *testing.T) {
	var tt search.NoTranspositionTable
	tt.Write(board.Signature(1), search.ExactBound, 0, 4, board.Score(10), board.Move{})

	_, _, _, _, ok := tt.Read(board.Signature(1), 0)
	require.False(t, ok)
	require.Equal(t, uint64(0), tt.Size())
}
