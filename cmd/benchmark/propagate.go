package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/reactor/metrics"
	"github.com/delaneyj/reactor/reactor"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v3"
)

const (
	widthsKey  = "widths"
	heightsKey = "heights"
	itersKey   = "iters"
	metricsKey = "metrics"
)

func propagateCommand() *cli.Command {
	return &cli.Command{
		Name:  "propagate",
		Usage: "Time writes through grids of memo chains ending in effects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  widthsKey,
				Usage: "Comma separated number of chains hanging off the source",
				Value: "1,10,100,1000",
			},
			&cli.StringFlag{
				Name:  heightsKey,
				Usage: "Comma separated number of memos in each chain",
				Value: "1,10,100,1000",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes timed per grid",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Print runtime metrics in the Prometheus text format",
			},
		},
		Action: runPropagate,
	}
}

func runPropagate(ctx context.Context, cmd *cli.Command) error {
	done, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	ww, err := parseSizes(cmd.String(widthsKey))
	if err != nil {
		return fmt.Errorf("parse %s: %w", widthsKey, err)
	}
	hh, err := parseSizes(cmd.String(heightsKey))
	if err != nil {
		return fmt.Errorf("parse %s: %w", heightsKey, err)
	}
	iters := int(cmd.Uint(itersKey))
	if iters == 0 {
		return fmt.Errorf("%s must be positive", itersKey)
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.New(metrics.WithRegistry(reg))

	log.Printf("warming up")
	benchmarkPropagate(ww, hh, iters, nil, false)

	benchmarkPropagate(ww, hh, iters, recorder, true)

	if cmd.Bool(metricsKey) {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("size %d must be positive", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}

// propagationGrid builds w chains of h memos off one source, each chain
// ending in an effect.
func propagationGrid(rt *reactor.Runtime, w, h int) reactor.RWSignal[int] {
	src := reactor.NewSignal(rt, 1)
	for i := 0; i < w; i++ {
		var last reactor.Readable[int] = src
		for j := 0; j < h; j++ {
			prev := last
			last = reactor.Computed(rt, func(oldValue *int) int {
				return prev.Value() + 1
			})
		}

		tail := last
		reactor.Effect(rt, func() error {
			tail.Value()
			return nil
		})
	}
	return src
}

func benchmarkPropagate(ww, hh []int, iters int, recorder *metrics.Recorder, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Reactor Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rt := reactor.New()
			src := propagationGrid(rt, w, h)
			if recorder != nil {
				recorder.Reset()
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				elapsed := time.Since(start)
				tach.AddTime(elapsed)
				if recorder != nil {
					recorder.ObserveWrite(elapsed)
				}
			}
			if recorder != nil {
				recorder.Record(rt.Stats())
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
