package search

import (
	"context"

	"github.com/cmoore/talon/pkg/board"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Parallel splits the root move loop across goroutines once the leftmost
// child (the "young brother") of the split point has already been searched
// and returned a usable alpha bound, mirroring the young-brothers-wait
// idea: only fan out once there's something to search the remaining moves
// against, so the common case of a strong first move cutting off the rest
// doesn't pay for goroutines it doesn't need. A single search thread is
// always sufficient; Parallel is an optional accelerator, never required
// for correctness.
type Parallel struct {
	Root    Search
	Workers int // degree of fan-out; <=1 behaves like Root alone
}

func (p *Parallel) workers() int {
	if p.Workers <= 1 {
		return 1
	}
	return p.Workers
}

func (p *Parallel) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	if p.workers() <= 1 || depth < nullMoveMinDepth {
		return p.Root.Search(ctx, sctx, b, depth)
	}

	pos := b.Position()
	moves := board.GenerateMoves(pos, board.GenerateAllMoves)
	if len(moves) == 0 {
		result := b.AdjudicateNoLegalMoves()
		if result.Reason == board.Checkmate {
			return 0, board.MatedIn(0), nil, nil
		}
		return 0, board.DrawScore, nil, nil
	}

	if sctx.Ordering == nil {
		sctx.Ordering = NewOrdering()
	}
	picker := NewMovePicker(pos, moves, 0, board.Move{}, sctx.Ordering)

	var totalNodes atomic.Uint64

	// The young brother: searched alone first, on the caller's own board
	// and ordering table, both to seed alpha for every sibling and to
	// avoid forking work for positions a strong first move cuts off.
	first, ok := picker.Next()
	if !ok {
		return 0, board.DrawScore, nil, nil
	}
	if !b.PushMove(first) {
		return p.Root.Search(ctx, sctx, b, depth)
	}
	firstNodes, firstScore, firstPV, err := p.Root.Search(ctx, &Context{
		Alpha: sctx.Beta.Negate(), Beta: sctx.Alpha.Negate(),
		TT: sctx.TT, Eval: sctx.Eval, Ordering: sctx.Ordering, RootDepth: sctx.RootDepth,
	}, b, depth-OnePly)
	b.PopMove()
	if err != nil {
		return firstNodes, 0, nil, err
	}
	firstScore = board.IncrementMateDistance(firstScore.Negate())
	totalNodes.Add(firstNodes)

	best, bestPV := firstScore, append([]board.Move{first}, firstPV...)
	alpha := board.Max(sctx.Alpha, firstScore)
	if alpha >= sctx.Beta {
		return totalNodes.Load(), alpha, bestPV, nil
	}

	var remaining []board.Move
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		remaining = append(remaining, m)
	}

	type siblingResult struct {
		move  board.Move
		score board.Score
		pv    []board.Move
	}
	results := make([]siblingResult, len(remaining))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i, m := range remaining {
		i, m := i, m
		g.Go(func() error {
			fork := b.Fork()
			if !fork.PushMove(m) {
				return nil
			}
			siblingCtx := &Context{
				Alpha: alpha.Negate() - 1, Beta: alpha.Negate(),
				TT: sctx.TT, Eval: sctx.Eval, Ordering: NewOrdering(), RootDepth: sctx.RootDepth,
			}
			nodes, score, pv, err := p.Root.Search(gctx, siblingCtx, fork, depth-OnePly)
			if err != nil {
				return err
			}
			totalNodes.Add(nodes)
			score = board.IncrementMateDistance(score.Negate())
			results[i] = siblingResult{move: m, score: score, pv: pv}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return totalNodes.Load(), 0, nil, err
	}

	for _, r := range results {
		if r.move.IsNull() {
			continue // PushMove rejected it (shouldn't happen for legal moves)
		}
		if r.score > best {
			best = r.score
			bestPV = append([]board.Move{r.move}, r.pv...)
		}
	}

	return totalNodes.Load(), best, bestPV, nil
}
