package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtinGraphsName names the embedded configurations in errors.
const builtinGraphsName = "graphs.yaml (built-in)"

//go:embed graphs.yaml
var defaultGraphsYAML []byte

type benchmarkTestConfig struct {
	Name           string  `yaml:"name"`           // friendly name for the test, should be unique
	Width          int     `yaml:"width"`          // width of dependency graph to construct
	TotalLayers    int     `yaml:"totalLayers"`    // depth of dependency graph to construct
	StaticFraction float64 `yaml:"staticFraction"` // fraction of nodes that are static
	NSources       int     `yaml:"nSources"`       // construct a graph with number of sources in each node
	ReadFraction   float64 `yaml:"readFraction"`   // fraction of [0, 1] elements in the last layer from which to read values in each test iteration
	Iterations     int     `yaml:"iterations"`     // number of test iterations
	ExpectedCount  int64   `yaml:"expectedCount"`  // count of all iterations, for verification; zero skips the check
}

type benchmarkFile struct {
	Repeats int                   `yaml:"repeats"`
	Graphs  []benchmarkTestConfig `yaml:"graphs"`
}

// loadBenchmarkFile reads graph configurations from path, or the built-in
// set when path is empty.
func loadBenchmarkFile(path string) (*benchmarkFile, error) {
	if path == "" {
		return parseBenchmarkFile(builtinGraphsName, defaultGraphsYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return parseBenchmarkFile(path, data)
}

// parseBenchmarkFile decodes and validates data; name identifies its source
// in errors.
func parseBenchmarkFile(name string, data []byte) (*benchmarkFile, error) {
	f := &benchmarkFile{Repeats: 5}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", name, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *benchmarkFile) Validate() error {
	if f.Repeats <= 0 {
		return errors.New("repeats must be positive")
	}
	if len(f.Graphs) == 0 {
		return errors.New("no graphs configured")
	}
	names := make(map[string]struct{}, len(f.Graphs))
	var errs []error
	for _, g := range f.Graphs {
		if _, dup := names[g.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate graph name %q", g.Name))
		}
		names[g.Name] = struct{}{}
		if err := g.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c benchmarkTestConfig) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("graph without a name")
	case c.Width <= 0:
		return fmt.Errorf("%s: width must be positive", c.Name)
	case c.TotalLayers < 2:
		return fmt.Errorf("%s: totalLayers must be at least 2", c.Name)
	case c.NSources <= 0 || c.NSources > c.Width:
		return fmt.Errorf("%s: nSources must be between 1 and width", c.Name)
	case c.StaticFraction < 0 || c.StaticFraction > 1:
		return fmt.Errorf("%s: staticFraction must be within [0, 1]", c.Name)
	case c.ReadFraction < 0 || c.ReadFraction > 1:
		return fmt.Errorf("%s: readFraction must be within [0, 1]", c.Name)
	case c.Iterations <= 0:
		return fmt.Errorf("%s: iterations must be positive", c.Name)
	}
	return nil
}

func (f *benchmarkFile) find(name string) (benchmarkTestConfig, bool) {
	for _, g := range f.Graphs {
		if g.Name == name {
			return g, true
		}
	}
	return benchmarkTestConfig{}, false
}
