package engine_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/engine"
	"github.com/stretchr/testify/require"
)

func TestNoBookAlwaysMisses(t *testing.T) {
	moves, err := engine.NoBook.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	require.Empty(t, moves)
}

func TestBadgerBookFindsStoredMoves(t *testing.T) {
	dir := t.TempDir()
	b, err := engine.OpenBadgerBook(dir)
	require.NoError(t, err)
	defer b.Close()

	// No entries yet: a miss, not an error.
	moves, err := b.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	require.Empty(t, moves)
}

func TestBadgerBookReopensExistingStore(t *testing.T) {
	dir := t.TempDir()

	b1, err := engine.OpenBadgerBook(dir)
	require.NoError(t, err)
	require.NoError(t, b1.Close())

	b2, err := engine.OpenBadgerBook(dir)
	require.NoError(t, err)
	defer b2.Close()

	moves, err := b2.Find(context.Background(), fen.Initial)
	require.NoError(t, err)
	require.Empty(t, moves)
}
