package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/delaneyj/reactor/algorithm"
	"github.com/delaneyj/reactor/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGraphs(t *testing.T) {
	f, err := loadBenchmarkFile("")
	require.NoError(t, err)
	assert.Equal(t, 5, f.Repeats)
	require.Len(t, f.Graphs, 6)

	deep, ok := f.find("deep")
	require.True(t, ok)
	assert.Equal(t, 500, deep.TotalLayers)
	assert.Equal(t, int64(1246500), deep.ExpectedCount)
}

func TestLoadGraphsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
graphs:
  - name: tiny
    width: 3
    totalLayers: 3
    staticFraction: 0.5
    nSources: 2
    readFraction: 1
    iterations: 10
`), 0644))

	f, err := loadBenchmarkFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, f.Repeats, "repeats defaults when omitted")
	require.Len(t, f.Graphs, 1)
	assert.Equal(t, "tiny", f.Graphs[0].Name)

	_, err = loadBenchmarkFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInvalidGraphs(t *testing.T) {
	base := benchmarkTestConfig{
		Name: "g", Width: 4, TotalLayers: 3, NSources: 2,
		StaticFraction: 1, ReadFraction: 1, Iterations: 1,
	}
	require.NoError(t, base.Validate())

	for name, mutate := range map[string]func(*benchmarkTestConfig){
		"no name":         func(c *benchmarkTestConfig) { c.Name = "" },
		"zero width":      func(c *benchmarkTestConfig) { c.Width = 0 },
		"single layer":    func(c *benchmarkTestConfig) { c.TotalLayers = 1 },
		"too many inputs": func(c *benchmarkTestConfig) { c.NSources = 5 },
		"static fraction": func(c *benchmarkTestConfig) { c.StaticFraction = 1.5 },
		"read fraction":   func(c *benchmarkTestConfig) { c.ReadFraction = -0.1 },
		"no iterations":   func(c *benchmarkTestConfig) { c.Iterations = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	f := benchmarkFile{Repeats: 1, Graphs: []benchmarkTestConfig{base, base}}
	assert.ErrorContains(t, f.Validate(), "duplicate graph name")
}

func TestParseErrorNamesSource(t *testing.T) {
	_, err := parseBenchmarkFile(builtinGraphsName, []byte("graphs: ["))
	assert.ErrorContains(t, err, "failed to parse config file graphs.yaml (built-in):")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repeats: [1"), 0644))
	_, err = loadBenchmarkFile(path)
	assert.ErrorContains(t, err, "broken.yaml")
}

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("1, 10,100,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 100}, sizes)

	_, err = parseSizes("1,x")
	assert.Error(t, err)
	_, err = parseSizes("0")
	assert.Error(t, err)
	_, err = parseSizes("")
	assert.Error(t, err)
}

func TestPropagationGrid(t *testing.T) {
	rt := reactor.New()
	src := propagationGrid(rt, 3, 4)
	stats := rt.Stats()
	assert.Equal(t, 1+3*4+3, stats.LiveNodes)

	src.SetValue(2)
	stats = rt.Stats()
	assert.Equal(t, uint64(3*4*2), stats.MemoRuns)
	assert.Equal(t, uint64(3*2), stats.EffectRuns)
}

// referenceSum recomputes the final leaf values of the benchmark graph
// without the runtime.
func referenceSum(cfg benchmarkTestConfig, isDynamic [][]bool) int {
	values := make([]int, cfg.Width)
	for i := range values {
		values[i] = i
	}
	for i := 0; i < cfg.Iterations; i++ {
		dex := i % cfg.Width
		values[dex] = i + dex
	}

	for _, dynamicRow := range isDynamic {
		next := make([]int, len(values))
		for myDex := range values {
			inputs := make([]int, 0, cfg.NSources)
			for s := 0; s < cfg.NSources; s++ {
				inputs = append(inputs, values[(myDex+s)%len(values)])
			}
			if !dynamicRow[myDex] {
				for _, v := range inputs {
					next[myDex] += v
				}
				continue
			}
			sum := inputs[0]
			tail := inputs[1:]
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)
			for j, v := range tail {
				if shouldDrop && j == dropDex {
					continue
				}
				sum += v
			}
			next[myDex] = sum
		}
		values = next
	}

	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}

func TestGraphMatchesReference(t *testing.T) {
	for _, cfg := range []benchmarkTestConfig{
		{Name: "static", Width: 6, TotalLayers: 4, NSources: 3, StaticFraction: 1, ReadFraction: 1, Iterations: 50},
		{Name: "dynamic", Width: 8, TotalLayers: 6, NSources: 4, StaticFraction: 0.3, ReadFraction: 1, Iterations: 80},
	} {
		t.Run(cfg.Name, func(t *testing.T) {
			counter := new(int64)
			graph, isDynamic := benchmarkMakeGraph(&benchmarkMakeGraphConfig{
				counter:        counter,
				width:          cfg.Width,
				totalLayers:    cfg.TotalLayers,
				nSources:       cfg.NSources,
				staticFraction: cfg.StaticFraction,
			})
			require.Len(t, graph.layers, cfg.TotalLayers-1)

			sum := benchmarkRunGraph(&benchmarkRunGraphConfig{
				graph:        graph,
				iteration:    cfg.Iterations,
				readFraction: cfg.ReadFraction,
			})
			assert.Equal(t, referenceSum(cfg, isDynamic), sum)
			assert.Positive(t, *counter)
			assert.NoError(t, graph.rt.CheckInvariants())
		})
	}
}

func TestPartialReads(t *testing.T) {
	graph, _ := benchmarkMakeGraph(&benchmarkMakeGraphConfig{
		counter: new(int64), width: 10, totalLayers: 3, nSources: 2, staticFraction: 1,
	})
	benchmarkRunGraph(&benchmarkRunGraphConfig{graph: graph, iteration: 5, readFraction: 0.2})

	dirty := 0
	for _, n := range graph.rt.Snapshot().Nodes {
		if n.Kind == reactor.KindMemo && n.State != algorithm.Clean {
			dirty++
		}
	}
	assert.Positive(t, dirty, "unread leaves stay stale")
}

func TestResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.msgpack")

	saved := newResultSet()
	saved.Results = []benchmarkResult{
		{Name: "deep", Width: 5, TotalLayers: 500, Duration: 2 * time.Second, Count: 4000},
	}
	require.NoError(t, saved.Save(path))

	loaded, err := loadResultSet(path)
	require.NoError(t, err)
	assert.Equal(t, saved.GoVersion, loaded.GoVersion)
	assert.True(t, saved.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, saved.Results, loaded.Results)
	assert.InDelta(t, 2.0, loaded.Results[0].UpdateRate(), 1e-9)
}

func TestCompare(t *testing.T) {
	before := &resultSet{Results: []benchmarkResult{
		{Name: "deep", Duration: 200 * time.Millisecond},
		{Name: "removed", Duration: time.Second},
	}}
	after := &resultSet{Results: []benchmarkResult{
		{Name: "deep", Duration: 150 * time.Millisecond},
		{Name: "added", Duration: time.Second},
	}}

	rows := compareResults(before, after)
	require.Len(t, rows, 1)
	assert.Equal(t, "deep", rows[0].name)
	assert.InDelta(t, -0.25, rows[0].change, 1e-9)

	var buf bytes.Buffer
	renderComparison(&buf, before, after)
	assert.True(t, strings.Contains(buf.String(), "-25.0%"))
}
