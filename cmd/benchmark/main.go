package main

import (
	"context"
	"log"
	"os"
	"runtime/pprof"

	"github.com/delaneyj/reactor/reactor"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	verboseKey    = "verbose"
	cpuProfileKey = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure the reactor runtime",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log runtime debug output",
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Commands: []*cli.Command{
			propagateCommand(),
			graphCommand(),
			compareCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup applies the global flags. The returned function stops profiling and
// flushes the logger.
func setup(cmd *cli.Command) (func(), error) {
	logger := zap.NewNop()
	if cmd.Bool(verboseKey) {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		logger = l
	}
	reactor.SetLogger(logger)

	stopProfile := func() {}
	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		stopProfile = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}

	return func() {
		stopProfile()
		_ = logger.Sync()
	}, nil
}
