// Package metrics provides Prometheus instrumentation for overchan components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for overchan components.
type Registry struct {
	// Channel Metrics
	ChannelSends      *prometheus.CounterVec
	ChannelReceives   *prometheus.CounterVec
	ChannelEvictions  *prometheus.CounterVec
	EvictionBatchSize *prometheus.HistogramVec
	ChannelLength     *prometheus.GaugeVec
	ChannelCapacity   *prometheus.GaugeVec

	// Sampler Metrics
	SamplerRuns   *prometheus.CounterVec
	SamplerErrors *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by overchan components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Channel Metrics
		ChannelSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "sends_total",
				Help:      "Total number of values sent into the channel",
			},
			[]string{"channel_name", "mode"},
		),

		ChannelReceives: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "receives_total",
				Help:      "Total number of values received from the channel",
			},
			[]string{"channel_name"},
		),

		ChannelEvictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "evictions_total",
				Help:      "Total number of values evicted to make room for newer ones",
			},
			[]string{"channel_name"},
		),

		EvictionBatchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "eviction_batch_size",
				Help:      "Number of values evicted by a single overwrite send",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"channel_name"},
		),

		ChannelLength: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "queue_length",
				Help:      "Current number of buffered values",
			},
			[]string{"channel_name"},
		),

		ChannelCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "overchan",
				Subsystem: "channel",
				Name:      "queue_capacity",
				Help:      "Channel buffer capacity",
			},
			[]string{"channel_name"},
		),

		// Sampler Metrics
		SamplerRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "overchan",
				Subsystem: "sampler",
				Name:      "runs_total",
				Help:      "Total number of sample function invocations",
			},
			[]string{"sampler_name"},
		),

		SamplerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "overchan",
				Subsystem: "sampler",
				Name:      "errors_total",
				Help:      "Total number of sample function failures",
			},
			[]string{"sampler_name"},
		),
	}
}
