// bench is a node-rate benchmark harness: it runs a fixed suite of
// positions to a fixed depth and reports nodes searched per second.
// Grounded on original_source/bench.c, which runs the same Crafty-derived
// FEN/depth suite against a fixed search depth and reports nodes/sec.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/cmoore/talon/pkg/board"
	"github.com/cmoore/talon/pkg/board/fen"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/cmoore/talon/pkg/search"
	"github.com/seekerror/logw"
)

var hash = flag.Uint("hash", 64, "Transposition table size in MB (zero disables it)")

type suite struct {
	fen   string
	depth int
}

var positions = []suite{
	{"3r1k2/4npp1/1ppr3p/p6P/P2PPPP1/1NR5/5K2/2R5 w - - 0 0", 11},
	{"rnbqkb1r/p3pppp/1p6/2ppP3/3N4/2P5/PPP1QPPP/R1B1KB1R w KQkq - 0 0", 11},
	{"4b3/p3kp2/6p1/3pP2p/2pP1P2/4K1P1/P3N2P/8 w - - 0 0", 13},
	{"r3r1k1/ppqb1ppp/8/4p1NQ/8/2P5/PP3PPP/R3R1K1 b - - 0 0", 11},
	{"2r2rk1/1bqnbpp1/1p1ppn1p/pP6/N1P1P3/P2B1N1P/1B2QPP1/R2R2K1 b - - 0 0", 11},
	{"r1bqk2r/pp2bppp/2p5/3pP3/P2Q1P2/2N1B3/1PP3PP/R4RK1 b kq - 0 0", 11},
}

func main() {
	flag.Parse()
	ctx := context.Background()

	pawns, err := eval.NewPawnCache(1 << 16)
	if err != nil {
		logw.Exitf(ctx, "Invalid pawn cache: %v", err)
	}
	evaluator := eval.Classical{Pawns: pawns}
	s := &search.AlphaBeta{Quiet: &search.Quiescence{Eval: evaluator}}

	var tt search.TranspositionTable = search.NoTranspositionTable{}
	if *hash > 0 {
		tt = search.NewTranspositionTable(ctx, uint64(*hash)<<20)
	}

	var totalNodes uint64
	start := time.Now()
	for _, p := range positions {
		pos, err := fen.Decode(p.fen)
		if err != nil {
			logw.Exitf(ctx, "Invalid fen %q: %v", p.fen, err)
		}
		b := board.NewBoard(pos)
		tt.DirtyAll()

		sctx := &search.Context{Alpha: board.NegInf, Beta: board.Inf, TT: tt, Eval: evaluator, Ordering: search.NewOrdering(), RootDepth: p.depth * search.OnePly}
		nodes, score, _, err := s.Search(ctx, sctx, b, p.depth*search.OnePly)
		if err != nil {
			logw.Exitf(ctx, "Search failed on %v: %v", p.fen, err)
		}
		totalNodes += nodes
		fmt.Printf("bench,%v,%v,%v,%v\n", p.fen, p.depth, nodes, score)
	}
	elapsed := time.Since(start)

	fmt.Printf("Searched %v nodes in %.1f sec.\n", totalNodes, elapsed.Seconds())
	fmt.Printf("BENCHMARK>> %.1f nodes/sec\n", float64(totalNodes)/elapsed.Seconds())
}
