package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options. The user may change these on a
// particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages searches from a given position.
type Launcher interface {
	// Launch starts a new search from b, which the launcher takes exclusive
	// ownership of (callers should pass a forked board). It returns a PV
	// channel fed with one value per completed iteration; the channel is
	// closed once the search is exhausted. The search may be stopped at any
	// time via the returned Handle.
	Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, staticEval search.Evaluator, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine manage a running search: stop it, and retrieve the
// last principal variation found.
type Handle interface {
	// Halt halts the search, if running, and returns its last PV. Idempotent.
	Halt() search.PV
}
