package search_test

import (
	"testing"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
)

func TestOrderingHistoryAccumulates(t *testing.T) {
	o := search.NewOrdering()
	m := board.Move{From: board.Square(0), To: board.Square(1), Piece: board.NewPiece(board.Knight, board.White)}

	require.Equal(t, uint32(0), o.History(m))

	o.Update(0, 4, m, nil, 1)
	first := o.History(m)
	require.Greater(t, first, uint32(0))

	o.Update(0, 4, m, nil, 1)
	require.Greater(t, o.History(m), first)
}

func TestOrderingUpdatePenalizesTriedQuietMoves(t *testing.T) {
	o := search.NewOrdering()
	best := board.Move{From: board.Square(0), To: board.Square(1), Piece: board.NewPiece(board.Knight, board.White)}
	other := board.Move{From: board.Square(2), To: board.Square(3), Piece: board.NewPiece(board.Bishop, board.White)}

	o.Update(0, 8, other, nil, 1)
	before := o.History(other)

	o.Update(0, 8, best, []board.Move{other}, 2)
	require.Less(t, o.History(other), before)
}

func TestOrderingKillersRecordedPerPly(t *testing.T) {
	o := search.NewOrdering()
	m := board.Move{From: board.Square(4), To: board.Square(20), Piece: board.NewPiece(board.Pawn, board.White)}

	require.False(t, o.IsKiller(3, m))
	o.Update(3, 2, m, nil, 1)
	require.True(t, o.IsKiller(3, m))
	require.False(t, o.IsKiller(4, m))
}

func TestOrderingLateMovePruningNeedsSamplesBeforeFiring(t *testing.T) {
	o := search.NewOrdering()
	require.False(t, o.ShouldPruneLateMove(20, 1))

	for i := 0; i < 600; i++ {
		o.RecordMoveTried(20)
	}
	require.True(t, o.ShouldPruneLateMove(20, 1))
}

func TestOrderingLateMovePruningNeverFiresEarlyOrDeep(t *testing.T) {
	o := search.NewOrdering()
	for i := 0; i < 600; i++ {
		o.RecordMoveTried(20)
	}

	require.False(t, o.ShouldPruneLateMove(4, 1), "early moves are never pruned")
	require.False(t, o.ShouldPruneLateMove(20, 3*search.OnePly), "deep remaining search is never pruned")
}

func TestOrderingClearResetsState(t *testing.T) {
	o := search.NewOrdering()
	m := board.Move{From: board.Square(4), To: board.Square(20), Piece: board.NewPiece(board.Pawn, board.White)}
	o.Update(3, 2, m, nil, 1)
	require.True(t, o.IsKiller(3, m))

	o.Clear()
	require.False(t, o.IsKiller(3, m))
	require.Equal(t, uint32(0), o.History(m))
}
