package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/reactor/reactor"
	"github.com/delaneyj/reactor/reactor/graphviz"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	configKey  = "config"
	outKey     = "out"
	onlyKey    = "only"
	repeatsKey = "repeats"
	dotKey     = "dot"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Run the dynamic dependency graph benchmarks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file with graph configurations, the built-in set when empty",
			},
			&cli.StringFlag{
				Name:  onlyKey,
				Usage: "Run only the graph with this name",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Override the number of timed repeats per graph",
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Save the results to this file for a later compare",
			},
			&cli.StringFlag{
				Name:  dotKey,
				Usage: "Write the graph selected with --only as Graphviz DOT to this file and exit",
			},
		},
		Action: runGraphs,
	}
}

func runGraphs(ctx context.Context, cmd *cli.Command) error {
	done, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	file, err := loadBenchmarkFile(cmd.String(configKey))
	if err != nil {
		return err
	}
	if n := cmd.Uint(repeatsKey); n > 0 {
		file.Repeats = int(n)
	}

	configs := file.Graphs
	if only := cmd.String(onlyKey); only != "" {
		cfg, ok := file.find(only)
		if !ok {
			return fmt.Errorf("no graph named %q", only)
		}
		configs = []benchmarkTestConfig{cfg}
	}

	if path := cmd.String(dotKey); path != "" {
		if len(configs) != 1 {
			return fmt.Errorf("--%s needs --%s", dotKey, onlyKey)
		}
		return writeGraphDot(path, configs[0])
	}

	log.Print("Starting reactor graph benchmark, please wait...")
	defer log.Print("Finished reactor graph benchmark")

	results := newResultSet()
	for _, cfg := range configs {
		log.Printf("Running '%s' config", cfg.Name)
		results.Results = append(results.Results, runGraphConfig(cfg, file.Repeats))
	}

	renderResults(results)

	if path := cmd.String(outKey); path != "" {
		if err := results.Save(path); err != nil {
			return err
		}
		log.Printf("Saved results to %s", path)
	}
	return nil
}

func runGraphConfig(cfg benchmarkTestConfig, repeats int) benchmarkResult {
	counter := new(int64)
	graph, _ := benchmarkMakeGraph(&benchmarkMakeGraphConfig{
		counter:        counter,
		width:          cfg.Width,
		totalLayers:    cfg.TotalLayers,
		nSources:       cfg.NSources,
		staticFraction: cfg.StaticFraction,
	})

	runOnce := func() int {
		return benchmarkRunGraph(&benchmarkRunGraphConfig{
			graph:        graph,
			iteration:    cfg.Iterations,
			readFraction: cfg.ReadFraction,
		})
	}
	// run once to warm up
	runOnce()

	best := benchmarkResult{
		Name:           cfg.Name,
		Width:          cfg.Width,
		TotalLayers:    cfg.TotalLayers,
		NSources:       cfg.NSources,
		ReadFraction:   cfg.ReadFraction,
		StaticFraction: cfg.StaticFraction,
		Iterations:     cfg.Iterations,
		Duration:       time.Hour,
	}

	for i := 0; i < repeats; i++ {
		log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.Name, i+1, repeats, (i+1)*100/repeats)
		*counter = 0
		start := time.Now()
		sum := runOnce()
		duration := time.Since(start)
		stats := graph.rt.Stats()
		reactor.Logger().Debug("graph run",
			zap.String("config", cfg.Name),
			zap.Int("repeat", i),
			zap.Int("sum", sum),
			zap.Int64("count", *counter),
			zap.Duration("duration", duration),
			zap.Uint64("memo_runs", stats.MemoRuns),
		)

		if duration < best.Duration {
			best.Duration = duration
			best.Sum = sum
			best.Count = *counter
		}
	}

	if cfg.ExpectedCount != 0 && best.Count != cfg.ExpectedCount {
		log.Printf("'%s' recomputed %s nodes, expected %s", cfg.Name,
			humanize.Comma(best.Count), humanize.Comma(cfg.ExpectedCount))
	}
	return best
}

func resultTitle(r benchmarkResult) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", r.Width, r.TotalLayers, r.NSources))
	if r.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if r.ReadFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*r.ReadFraction))
	}
	return sb.String()
}

func renderResults(results *resultSet) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"framework", "size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "title",
	})
	for _, r := range results.Results {
		table.Append([]string{
			"reactor", // framework
			fmt.Sprintf("%dx%d", r.Width, r.TotalLayers), // size
			fmt.Sprint(r.NSources),                       // nSources
			fmt.Sprint(r.ReadFraction),                   // read%
			fmt.Sprint(r.StaticFraction),                 // static%
			humanize.Comma(int64(r.Iterations)),          // nTimes
			r.Name,                                       // test
			fmt.Sprint(r.Duration),                       // time
			humanize.Comma(int64(r.UpdateRate())),        // updateRate
			resultTitle(r),                               // title
		})
	}
	table.Render()
}

func writeGraphDot(path string, cfg benchmarkTestConfig) error {
	graph, _ := benchmarkMakeGraph(&benchmarkMakeGraphConfig{
		counter:        new(int64),
		width:          cfg.Width,
		totalLayers:    cfg.TotalLayers,
		nSources:       cfg.NSources,
		staticFraction: cfg.StaticFraction,
	})
	benchmarkRunGraph(&benchmarkRunGraphConfig{
		graph:        graph,
		iteration:    1,
		readFraction: cfg.ReadFraction,
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	graphviz.WriteDot(f, graph.rt.Snapshot())
	return nil
}
