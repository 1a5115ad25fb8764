// talon is an xboard/WinBoard chess engine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmoore/talon/pkg/engine"
	"github.com/cmoore/talon/pkg/engine/xboard"
	"github.com/cmoore/talon/pkg/eval"
	"github.com/cmoore/talon/pkg/search"
	"github.com/seekerror/logw"
)

var (
	noise    = flag.Int("noise", 0, "Evaluation noise in centipawns (zero if deterministic)")
	pawnhash = flag.Int64("pawnhash", 1 << 16, "Pawn structure cache capacity, in entries")
	book     = flag.String("book", "", "Path to an opening book store (disabled if empty)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: talon [options]

talon is an xboard/WinBoard protocol chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	pawns, err := eval.NewPawnCache(*pawnhash)
	if err != nil {
		logw.Exitf(ctx, "Invalid pawn cache: %v", err)
	}

	var noiseEval eval.Evaluator
	if *noise > 0 {
		noiseEval = eval.NewRandom(*noise, time.Now().UnixNano())
	}
	evaluator := eval.Classical{Pawns: pawns, Noise: noiseEval}

	s := &search.AlphaBeta{
		Quiet: &search.Quiescence{Eval: evaluator},
	}
	e := engine.New(ctx, "talon", "cmoore", s, evaluator)

	var opts []xboard.Option
	if *book != "" {
		b, err := engine.OpenBadgerBook(*book)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %v: %v", *book, err)
		}
		defer b.Close()
		opts = append(opts, xboard.WithBook(b))
	}

	in := readStdinLines(ctx)
	driver, out := xboard.NewDriver(ctx, e, in, opts...)
	go writeStdoutLines(ctx, out)

	<-driver.Closed()
}

// readStdinLines reads stdin lines into a chan. Async.
func readStdinLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// writeStdoutLines writes lines from the given chan to stdout.
func writeStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		fmt.Fprintln(os.Stdout, line)
	}
}
