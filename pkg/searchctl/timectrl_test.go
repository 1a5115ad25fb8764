package searchctl_test

import (
	"testing"
	"time"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/searchctl"
	"github.com/stretchr/testify/require"
)

func TestTimeControlLimitsDefaultsTo40Moves(t *testing.T) {
	tc := searchctl.TimeControl{White: 80 * time.Second, Black: 80 * time.Second}
	soft, hard := tc.Limits(board.White)

	require.Equal(t, time.Second, soft)
	require.Equal(t, 3*time.Second, hard)
}

func TestTimeControlLimitsHonorsMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{White: 40 * time.Second, Moves: 4}
	soft, hard := tc.Limits(board.White)

	// moves=4 -> divisor 2*(4+1)=10
	require.Equal(t, 4*time.Second, soft)
	require.Equal(t, 12*time.Second, hard)
}

func TestTimeControlLimitsPerColor(t *testing.T) {
	tc := searchctl.TimeControl{White: 80 * time.Second, Black: 40 * time.Second}

	whiteSoft, _ := tc.Limits(board.White)
	blackSoft, _ := tc.Limits(board.Black)

	require.Greater(t, whiteSoft, blackSoft)
}
