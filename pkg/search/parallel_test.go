package search_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
)

func TestParallelMatchesSerialBestMove(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/q7/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	s, evaluator := newSearcher(t)
	p := &search.Parallel{Root: s, Workers: 4}

	sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf, TT: search.NoTranspositionTable{}, Eval: evaluator, Ordering: search.NewOrdering(), RootDepth: 3 * search.OnePly}

	_, score, moves, err := p.Search(context.Background(), sctx, b, 3*search.OnePly)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	require.Equal(t, "a1a5", moves[0].String())
	require.Greater(t, score, board.Score(0))
}

func TestParallelWithOneWorkerDelegatesToRoot(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	s, evaluator := newSearcher(t)
	p := &search.Parallel{Root: s, Workers: 1}

	sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf, TT: search.NoTranspositionTable{}, Eval: evaluator, Ordering: search.NewOrdering(), RootDepth: 2 * search.OnePly}
	nodes, _, moves, err := p.Search(context.Background(), sctx, b, 2*search.OnePly)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	require.Greater(t, nodes, uint64(0))
}
