package xboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmoore/talon/pkg/engine"
	"github.com/cmoore/talon/pkg/engine/xboard"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/cmoore/talon/pkg/search"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) (chan<- string, <-chan string, *engine.Engine) {
	t.Helper()
	pawns, err := eval.NewPawnCache(1024)
	require.NoError(t, err)
	evaluator := eval.Classical{Pawns: pawns}
	root := &search.AlphaBeta{Quiet: &search.Quiescence{Eval: evaluator}}
	e := engine.New(context.Background(), "test", "tester", root, evaluator, engine.WithOptions(engine.Options{Depth: 1}))

	in := make(chan string, 16)
	_, out := xboard.NewDriver(context.Background(), e, in)
	return in, out, e
}

func recvWithTimeout(t *testing.T, out <-chan string) string {
	t.Helper()
	select {
	case line, ok := <-out:
		require.True(t, ok, "output channel closed unexpectedly")
		return line
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for driver output")
		return ""
	}
}

func TestXboardProtoverRepliesWithFeatures(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "protover 2"

	line := recvWithTimeout(t, out)
	require.Contains(t, line, "myname=\"talon\"")
	require.Contains(t, line, "done=1")
}

func TestXboardPingRepliesWithPong(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "ping 7"

	require.Equal(t, "pong 7", recvWithTimeout(t, out))
}

func TestXboardForceModeAcceptsMoveWithoutReplying(t *testing.T) {
	in, out, e := newTestDriver(t)
	in <- "force"
	in <- "e2e4"
	in <- "ping 1"

	// In force mode, "e2e4" is applied but never triggers a search reply;
	// the next thing on the wire is the ping's pong.
	require.Equal(t, "pong 1", recvWithTimeout(t, out))
	require.NotEqual(t, "", e.Position())
}

func TestXboardIllegalMoveReportsError(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "force"
	in <- "e2e5"

	require.Equal(t, "Illegal move: e2e5", recvWithTimeout(t, out))
}

func TestXboardSetboardAndEval(t *testing.T) {
	in, out, _ := newTestDriver(t)
	fenStr := "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"
	in <- "setboard " + fenStr
	in <- "eval"

	require.Equal(t, "fen:    "+fenStr, recvWithTimeout(t, out))
}

func TestXboardGoTriggersMoveReply(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "setboard 4k3/8/8/8/8/8/8/R3K3 w - - 0 1"
	in <- "sd 1"
	in <- "go"

	var lastLine string
	for i := 0; i < 10; i++ {
		lastLine = recvWithTimeout(t, out)
		if len(lastLine) >= 5 && lastLine[:5] == "move " {
			break
		}
	}
	require.Contains(t, lastLine, "move ")
}

func TestXboardUnsupportedHarnessCommandsError(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "bench"

	line := recvWithTimeout(t, out)
	require.Contains(t, line, "unsupported in this driver")
}

func TestXboardQuitClosesDriver(t *testing.T) {
	in, out, _ := newTestDriver(t)
	in <- "quit"

	_, ok := <-out
	require.False(t, ok)
}
