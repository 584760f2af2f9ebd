package metrics

import (
	"sync"
	"time"

	"github.com/delaneyj/reactor/reactor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for write latency.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder publishes reactor.Stats as Prometheus metrics.
//
// A Runtime may only be touched by the goroutine that owns it, so the
// Recorder never reads one on its own. The owner calls Record with a fresh
// Stats value whenever it wants the metrics updated; scrapes then read the
// last recorded state from any goroutine.
type Recorder struct {
	mu   sync.Mutex
	last reactor.Stats

	liveNodes     prometheus.Gauge
	nodes         *prometheus.GaugeVec
	queued        prometheus.Gauge
	runs          *prometheus.CounterVec
	propagations  prometheus.Counter
	queueFlushes  prometheus.Counter
	disposals     prometheus.Counter
	writeDuration prometheus.Histogram
}

// New registers the runtime metrics with the configured registry.
//
// Metrics collected:
//   - reactor_live_nodes: Gauge of nodes alive in the runtime
//   - reactor_nodes: Gauge of nodes by store (signal, computation, stored_value, callback)
//   - reactor_queued_effects: Gauge of effects waiting to run
//   - reactor_runs_total: Counter of computation runs by kind (effect, memo)
//   - reactor_propagations_total: Counter of notifying writes
//   - reactor_queue_flushes_total: Counter of effect queue drains
//   - reactor_disposals_total: Counter of disposed nodes
//   - reactor_write_duration_seconds: Histogram of write latency, when observed
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		liveNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of nodes alive in the runtime",
			ConstLabels: config.ConstLabels,
		}),

		nodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes",
			Help:        "Number of live nodes holding an entry in each store",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queued_effects",
			Help:        "Number of effects waiting to run",
			ConstLabels: config.ConstLabels,
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runs_total",
			Help:        "Total number of computation runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		propagations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagations_total",
			Help:        "Total number of notifying writes",
			ConstLabels: config.ConstLabels,
		}),

		queueFlushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_flushes_total",
			Help:        "Total number of effect queue drains",
			ConstLabels: config.ConstLabels,
		}),

		disposals: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "disposals_total",
			Help:        "Total number of disposed nodes",
			ConstLabels: config.ConstLabels,
		}),

		writeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "write_duration_seconds",
			Help:        "Time from a signal write until every affected effect has run",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Record publishes s. Counters advance by the difference to the previously
// recorded Stats; a Stats value smaller than the last one is taken to come
// from a new runtime and is added whole.
func (r *Recorder) Record(s reactor.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.liveNodes.Set(float64(s.LiveNodes))
	r.nodes.WithLabelValues("signal").Set(float64(s.Signals))
	r.nodes.WithLabelValues("computation").Set(float64(s.Computations))
	r.nodes.WithLabelValues("stored_value").Set(float64(s.StoredValues))
	r.nodes.WithLabelValues("callback").Set(float64(s.Callbacks))
	r.queued.Set(float64(s.Queued))

	r.runs.WithLabelValues("effect").Add(delta(r.last.EffectRuns, s.EffectRuns))
	r.runs.WithLabelValues("memo").Add(delta(r.last.MemoRuns, s.MemoRuns))
	r.propagations.Add(delta(r.last.Propagations, s.Propagations))
	r.queueFlushes.Add(delta(r.last.QueueFlushes, s.QueueFlushes))
	r.disposals.Add(delta(r.last.Disposals, s.Disposals))

	r.last = s
}

// Reset forgets the last recorded Stats so the next Record counts in full.
// Call it before recording a different runtime.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.last = reactor.Stats{}
	r.mu.Unlock()
}

// ObserveWrite records how long one write took to settle.
func (r *Recorder) ObserveWrite(d time.Duration) {
	r.writeDuration.Observe(d.Seconds())
}

func delta(prev, next uint64) float64 {
	if next < prev {
		return float64(next)
	}
	return float64(next - prev)
}
