package searchctl_test

import (
	"context"
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/cmoore/talon/pkg/search"
	"github.com/cmoore/talon/pkg/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/require"
)

func TestIterativeLaunchStopsAtDepthLimit(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	evaluator := eval.Classical{Pawns: pawns}
	root := &search.AlphaBeta{Quiet: &search.Quiescence{Eval: evaluator}}

	it := &searchctl.Iterative{Root: root}
	handle, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, evaluator, searchctl.Options{DepthLimit: lang.Some(uint(2))})

	var last search.PV
	for pv := range out {
		last = pv
		require.LessOrEqual(t, pv.Depth, 2)
	}
	require.Equal(t, 2, last.Depth)
	require.NotEmpty(t, last.Moves)

	// Launch already completed on its own; Halt just returns the final PV.
	final := handle.Halt()
	require.Equal(t, last.Moves, final.Moves)
}

func TestIterativeLaunchHaltStopsSearchEarly(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	evaluator := eval.Classical{Pawns: pawns}
	root := &search.AlphaBeta{Quiet: &search.Quiescence{Eval: evaluator}}

	it := &searchctl.Iterative{Root: root}
	handle, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, evaluator, searchctl.Options{})

	// Consume one PV then halt; the run must terminate and hand back a PV.
	<-out
	pv := handle.Halt()
	require.NotEmpty(t, pv.Moves)

	// The output channel must close once halted.
	for range out {
	}
}
