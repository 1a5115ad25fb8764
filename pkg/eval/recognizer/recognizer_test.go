package recognizer_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/eval/recognizer"
	"github.com/stretchr/testify/require"
)

func TestProbeBareKingsIsExactDraw(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	result := recognizer.Probe(pos, nil)
	require.Equal(t, recognizer.Exact, result.Kind)
	require.Equal(t, board.Score(0), result.Score)
}

func TestProbeLoneMinorCannotForceMate(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	require.NoError(t, err)

	result := recognizer.Probe(pos, nil)
	require.Equal(t, recognizer.Exact, result.Kind)
	require.Equal(t, board.Score(0), result.Score)
}

func TestProbeNotRecognizedWithMajorPieces(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	result := recognizer.Probe(pos, nil)
	require.Equal(t, recognizer.NotRecognized, result.Kind)
}

func TestProbeUsesExternalProberFirst(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	result := recognizer.Probe(pos, stubProber{score: 123, ok: true})
	require.Equal(t, recognizer.Exact, result.Kind)
	require.Equal(t, board.Score(123), result.Score)
}

func TestProbeFallsThroughWhenProberMisses(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	result := recognizer.Probe(pos, stubProber{ok: false})
	require.Equal(t, recognizer.Exact, result.Kind)
	require.Equal(t, board.Score(0), result.Score)
}

func TestEligibleGatesOnNonPawnCount(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	require.False(t, recognizer.Eligible(pos))

	endgame, err := fen.Decode("4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, recognizer.Eligible(endgame))
}

type stubProber struct {
	score board.Score
	ok    bool
}

func (s stubProber) Probe(*board.Position) (board.Score, bool) { return s.score, s.ok }
