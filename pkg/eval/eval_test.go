package eval_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/stretchr/testify/require"
)

func TestMaterialIsSymmetricAndZeroInStartPosition(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	require.Equal(t, board.Score(0), eval.Material{}.Evaluate(context.Background(), pos))
}

func TestMaterialFavorsExtraPiece(t *testing.T) {
	// White is up a rook with no other imbalance.
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	score := eval.Material{}.Evaluate(context.Background(), pos)
	require.Greater(t, score, board.Score(0))
}

func TestClassicalReturnsDrawScoreUnderInsufficientMaterial(t *testing.T) {
	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	c := eval.Classical{Pawns: pawns}

	pos, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	require.Equal(t, board.Score(0), c.Evaluate(context.Background(), pos))
}

func TestClassicalFavorsMaterialAdvantage(t *testing.T) {
	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	c := eval.Classical{Pawns: pawns}

	pos, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	require.Greater(t, c.Evaluate(context.Background(), pos), board.Score(0))
}

func TestRandomIsBoundedAndDeterministicForSameSeed(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	a := eval.NewRandom(20, 42)
	b := eval.NewRandom(20, 42)

	for i := 0; i < 10; i++ {
		sa := a.Evaluate(context.Background(), pos)
		sb := b.Evaluate(context.Background(), pos)
		require.Equal(t, sa, sb)
		require.LessOrEqual(t, sa, board.Score(20))
		require.GreaterOrEqual(t, sa, board.Score(-20))
	}
}

func TestRandomZeroLimitAlwaysZero(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	r := eval.NewRandom(0, 1)
	require.Equal(t, board.Score(0), r.Evaluate(context.Background(), pos))
}

func TestClassicalAddsNoise(t *testing.T) {
	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)

	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	withoutNoise := eval.Classical{Pawns: pawns}.Evaluate(context.Background(), pos)
	withNoise := eval.Classical{Pawns: pawns, Noise: constEvaluator(37)}.Evaluate(context.Background(), pos)

	require.Equal(t, withoutNoise+37, withNoise)
}

type constEvaluator board.Score

func (c constEvaluator) Evaluate(context.Context, *board.Position) board.Score { return board.Score(c) }
