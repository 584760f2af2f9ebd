package main

import (
	"math"
	"math/rand"

	"github.com/delaneyj/reactor/reactor"
)

type benchmarkGraph struct {
	rt      *reactor.Runtime
	sources []reactor.RWSignal[int]
	layers  [][]reactor.Memo[int]
}

type benchmarkMakeGraphConfig struct {
	counter                      *int64
	width, totalLayers, nSources int
	staticFraction               float64
}

func benchmarkMakeGraph(cfg *benchmarkMakeGraphConfig) (graph *benchmarkGraph, isDynamic [][]bool) {
	rt := reactor.New()
	sources := make([]reactor.RWSignal[int], cfg.width)
	for i := range sources {
		sources[i] = reactor.NewSignal(rt, i)
	}
	graph = &benchmarkGraph{rt: rt, sources: sources}

	prevRow := make([]reactor.Readable[int], len(sources))
	for i, s := range sources {
		prevRow[i] = s
	}
	graph.layers, isDynamic = makeBenchmarkDependentRows(&benchmarkMakeDependentRowsConfig{
		rt:             rt,
		sources:        prevRow,
		numRows:        cfg.totalLayers - 1,
		counter:        cfg.counter,
		staticFraction: cfg.staticFraction,
		nSources:       cfg.nSources,
	})
	return
}

type benchmarkRunGraphConfig struct {
	graph        *benchmarkGraph
	iteration    int
	readFraction float64
}

// benchmarkRunGraph executes the graph by writing one of the sources and
// reading some or all of the leaves, and returns the sum of the leaf values.
func benchmarkRunGraph(cfg *benchmarkRunGraphConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := cfg.graph.layers[len(cfg.graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	rt := cfg.graph.rt
	for i := 0; i < cfg.iteration; i++ {
		rt.Batch(func() {
			sourceDex := i % len(cfg.graph.sources)
			cfg.graph.sources[sourceDex].SetValue(i + sourceDex)
		})

		for _, leaf := range readLeaves {
			leaf.Value()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Value()
	}
	return sum
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}

type benchmarkMakeDependentRowsConfig struct {
	rt                *reactor.Runtime
	sources           []reactor.Readable[int]
	numRows, nSources int
	counter           *int64
	staticFraction    float64
}

func makeBenchmarkDependentRows(cfg *benchmarkMakeDependentRowsConfig) (rows [][]reactor.Memo[int], allDynamic [][]bool) {
	prevRow := cfg.sources
	random := rand.New(rand.NewSource(0))
	rows = make([][]reactor.Memo[int], cfg.numRows)
	allDynamic = make([][]bool, cfg.numRows)
	for l := 0; l < cfg.numRows; l++ {
		row, isDynamic := makeBenchmarkRow(&benchmarkRowConfig{
			rt:             cfg.rt,
			sources:        prevRow,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
			rand:           random,
		})
		rows[l] = row
		allDynamic[l] = isDynamic

		prevRow = make([]reactor.Readable[int], len(row))
		for i, m := range row {
			prevRow[i] = m
		}
	}
	return rows, allDynamic
}

type benchmarkRowConfig struct {
	rt             *reactor.Runtime
	sources        []reactor.Readable[int]
	counter        *int64
	staticFraction float64
	nSources       int
	rand           *rand.Rand
}

func makeBenchmarkRow(cfg *benchmarkRowConfig) (row []reactor.Memo[int], isDynamic []bool) {
	row = make([]reactor.Memo[int], len(cfg.sources))
	isDynamic = make([]bool, len(cfg.sources))

	for myDex := range cfg.sources {
		mySources := make([]reactor.Readable[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
			mySources = append(mySources, cfg.sources[(myDex+sourceDex)%len(cfg.sources)])
		}

		staticNode := cfg.rand.Float64() < cfg.staticFraction
		if staticNode || len(mySources) < 2 {
			// static node, always reference sources
			row[myDex] = reactor.Computed(cfg.rt, func(_ *int) int {
				*cfg.counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Value()
				}
				return sum
			})
			continue
		}

		first := mySources[0]
		tail := mySources[1:]
		row[myDex] = reactor.Computed(cfg.rt, func(_ *int) int {
			*cfg.counter++
			sum := first.Value()
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)

			for i := 0; i < len(tail); i++ {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += tail[i].Value()
			}
			return sum
		})
		isDynamic[myDex] = true
	}

	return
}
