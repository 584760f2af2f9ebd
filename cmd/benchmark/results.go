package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

type benchmarkResult struct {
	Name           string        `msgpack:"name"`
	Width          int           `msgpack:"width"`
	TotalLayers    int           `msgpack:"total_layers"`
	NSources       int           `msgpack:"n_sources"`
	ReadFraction   float64       `msgpack:"read_fraction"`
	StaticFraction float64       `msgpack:"static_fraction"`
	Iterations     int           `msgpack:"iterations"`
	Duration       time.Duration `msgpack:"duration"`
	Sum            int           `msgpack:"sum"`
	Count          int64         `msgpack:"count"`
}

// UpdateRate is the number of memo runs per millisecond.
func (r benchmarkResult) UpdateRate() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Count) / (float64(r.Duration) / float64(time.Millisecond))
}

type resultSet struct {
	CreatedAt time.Time         `msgpack:"created_at"`
	GoVersion string            `msgpack:"go_version"`
	Results   []benchmarkResult `msgpack:"results"`
}

func newResultSet() *resultSet {
	return &resultSet{
		CreatedAt: time.Now().UTC(),
		GoVersion: runtime.Version(),
	}
}

func (s *resultSet) find(name string) (benchmarkResult, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return benchmarkResult{}, false
}

// Save persists the results to path using msgpack.
func (s *resultSet) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := msgpack.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// loadResultSet restores results saved by Save.
func loadResultSet(path string) (*resultSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoder := msgpack.NewDecoder(file)
	var s resultSet
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &s, nil
}
