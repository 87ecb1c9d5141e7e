// Package metrics provides Prometheus instrumentation for overchan components.
//
// This package enables monitoring and observability for overwrite channels
// and samplers through Prometheus metrics.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Overwrite channel with metrics
//	tx, rx, err := overwrite.BoundedWithMetrics[Reading](64, "sensor_feed")
//
//	// Sampler with metrics
//	s, rx, err := sampler.NewWithConfig(sampler.Config[Reading]{
//		Schedule: "*/5 * * * * *",
//		Sample:   readSensor,
//		Capacity: 16,
//		Metrics:  metrics.DefaultConfig(),
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	tx, rx, err := overwrite.BoundedWithConfig(overwrite.Config[int]{
//		Capacity: 16,
//		Name:     "jobs",
//		Metrics:  config,
//	})
//
// # Available Metrics
//
// ## Channel Metrics
//
//   - overchan_channel_sends_total: Values sent, labeled by send mode ("overwrite" or "plain")
//   - overchan_channel_receives_total: Values received
//   - overchan_channel_evictions_total: Values evicted to make room for newer ones
//   - overchan_channel_eviction_batch_size: Values evicted per overwrite send
//   - overchan_channel_queue_length: Current number of buffered values
//   - overchan_channel_queue_capacity: Channel buffer capacity
//
// ## Sampler Metrics
//
//   - overchan_sampler_runs_total: Sample function invocations
//   - overchan_sampler_errors_total: Sample function failures
//
// # Labels
//
//   - channel_name: User-provided name for the channel instance
//   - sampler_name: User-provided name for the sampler instance
//   - mode: "overwrite" for SendOverwrite variants, "plain" for Send/TrySend
//
// # Runtime Control
//
// Channel handles implement the Instrumentable interface for runtime control:
//
//	tx.DisableMetrics()            // Stop collecting metrics
//	tx.EnableMetrics(config)       // Re-enable with new config
//	enabled := tx.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
