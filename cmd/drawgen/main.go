// Command drawgen produces synthetic draw histories: JSON lines for
// offline inspection or a pre-seeded store file, with an optional
// engine replay over the tail.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/liemgreggy-glitch/fcbot/internal/drawgen"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

func main() {
	var cfg drawgen.Config
	flag.Int64Var(&cfg.Seed, "seed", 0, "generation seed (0 derives one from the clock)")
	flag.IntVar(&cfg.Count, "count", drawgen.DefaultCount, "number of draws to generate")
	flag.StringVar(&cfg.StartSeq, "start", drawgen.DefaultStartSeq, "first period identifier")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "concurrent generation workers")
	flag.StringVar(&cfg.OutputFile, "output", "", "JSON lines output path (default draws_<batch>.jsonl)")
	flag.StringVar(&cfg.StorePath, "store", "", "seed this store file instead of writing JSON lines")
	flag.IntVar(&cfg.ReplayWindow, "replay", 0, "replay the engine over the last N draws")
	flag.IntVar(&cfg.TopN, "top", drawgen.DefaultTopN, "picks per replayed prediction")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := drawgen.Run(ctx, &cfg); err != nil {
		os.Stderr.WriteString("generator run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
