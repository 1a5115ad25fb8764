package search_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func newSearcher(t *testing.T) (*search.AlphaBeta, eval.Evaluator) {
	t.Helper()
	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	evaluator := eval.Classical{Pawns: pawns}
	return &search.AlphaBeta{Quiet: &search.Quiescence{Eval: evaluator}}, evaluator
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	// White to move: Qe1-e8 is checkmate (back-rank mate).
	pos, err := fen.Decode("6k1/5ppp/8/8/8/8/5PPP/4Q1K1 w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	s, evaluator := newSearcher(t)
	sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf, TT: search.NoTranspositionTable{}, Eval: evaluator, Ordering: search.NewOrdering(), RootDepth: 2 * search.OnePly}

	_, score, moves, err := s.Search(context.Background(), sctx, b, 2*search.OnePly)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	require.Equal(t, "e1e8", moves[0].String())

	md, ok := score.MateDistance()
	require.True(t, ok)
	require.Equal(t, 1, md)
}

func TestAlphaBetaPrefersWinningCaptureOverQuiet(t *testing.T) {
	// Black hangs a queen to a rook on the same file; the search should
	// find the capture.
	pos, err := fen.Decode("4k3/8/8/q7/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	s, evaluator := newSearcher(t)
	sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf, TT: search.NoTranspositionTable{}, Eval: evaluator, Ordering: search.NewOrdering(), RootDepth: 3 * search.OnePly}

	_, score, moves, err := s.Search(context.Background(), sctx, b, 3*search.OnePly)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	require.Equal(t, "a1a5", moves[0].String())
	require.Greater(t, score, board.Score(0))
}

func TestAlphaBetaQuickNullCounterIncrementsOnCutoff(t *testing.T) {
	// White massively ahead with the move: searched with a null window, the
	// root is a non-PV node at the verification depth, so null-move pruning
	// fires and takes the cheap (unverified) cutoff path.
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/QQQQK3 w - - 0 1")
	require.NoError(t, err)
	b := board.NewBoard(pos)

	s, evaluator := newSearcher(t)
	quick := atomic.NewUint64(0)
	avoid := atomic.NewUint64(0)
	sctx := &search.Context{
		Alpha: board.Score(0), Beta: board.Score(1), TT: search.NoTranspositionTable{}, Eval: evaluator,
		Ordering: search.NewOrdering(), RootDepth: 3 * search.OnePly,
		QuickNullCount: quick, AvoidNullCount: avoid,
	}

	_, _, _, err = s.Search(context.Background(), sctx, b, 3*search.OnePly)
	require.NoError(t, err)
	require.Greater(t, quick.Load(), uint64(0))
}

func TestQuiescenceSearchIsQuietAtLeaf(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	evaluator := eval.Classical{Pawns: pawns}
	q := &search.Quiescence{Eval: evaluator}

	sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf}
	nodes, score, err := q.QuietSearch(context.Background(), sctx, b)
	require.NoError(t, err)
	require.GreaterOrEqual(t, nodes, uint64(1))
	require.Equal(t, board.Score(0), score)
}
