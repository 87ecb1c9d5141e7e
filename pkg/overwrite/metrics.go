package overwrite

import (
	"github.com/vnykmshr/overchan/pkg/metrics"
)

// Send modes recorded in the sends_total metric.
const (
	modeOverwrite = "overwrite"
	modePlain     = "plain"
)

// metricsRegistry returns the active registry, or nil when metrics are disabled.
func (c *core[T]) metricsRegistry() *metrics.Registry {
	c.metricsMu.RLock()
	defer c.metricsMu.RUnlock()
	return c.registry
}

// recordCapacity publishes the immutable capacity gauge.
func (c *core[T]) recordCapacity() {
	r := c.metricsRegistry()
	if r == nil {
		return
	}
	r.ChannelCapacity.WithLabelValues(c.name).Set(float64(c.queue.Cap()))
}

// recordOverwriteSend updates metrics after a successful overwrite send.
func (c *core[T]) recordOverwriteSend(evicted int) {
	r := c.metricsRegistry()
	if r == nil {
		return
	}
	r.ChannelSends.WithLabelValues(c.name, modeOverwrite).Inc()
	r.EvictionBatchSize.WithLabelValues(c.name).Observe(float64(evicted))
	if evicted > 0 {
		r.ChannelEvictions.WithLabelValues(c.name).Add(float64(evicted))
	}
	r.ChannelLength.WithLabelValues(c.name).Set(float64(c.queue.Len()))
}

// recordPlainSend updates metrics after a successful plain send.
func (c *core[T]) recordPlainSend() {
	r := c.metricsRegistry()
	if r == nil {
		return
	}
	r.ChannelSends.WithLabelValues(c.name, modePlain).Inc()
	r.ChannelLength.WithLabelValues(c.name).Set(float64(c.queue.Len()))
}

// recordReceive updates metrics after a successful receive.
func (c *core[T]) recordReceive() {
	r := c.metricsRegistry()
	if r == nil {
		return
	}
	r.ChannelReceives.WithLabelValues(c.name).Inc()
	r.ChannelLength.WithLabelValues(c.name).Set(float64(c.queue.Len()))
}

func (c *core[T]) enableMetrics(config metrics.Config) error {
	registry := metrics.RegistryFor(config)

	c.metricsMu.Lock()
	c.registry = registry
	c.metricsMu.Unlock()

	c.recordCapacity()
	return nil
}

func (c *core[T]) disableMetrics() {
	c.metricsMu.Lock()
	defer c.metricsMu.Unlock()
	c.registry = nil
}

func (c *core[T]) metricsEnabled() bool {
	return c.metricsRegistry() != nil
}

// EnableMetrics enables metrics collection for the channel shared by this handle.
func (s *Sender[T]) EnableMetrics(config metrics.Config) error {
	return s.core.enableMetrics(config)
}

// DisableMetrics disables metrics collection for the channel shared by this handle.
func (s *Sender[T]) DisableMetrics() {
	s.core.disableMetrics()
}

// MetricsEnabled returns true if metrics are currently enabled.
func (s *Sender[T]) MetricsEnabled() bool {
	return s.core.metricsEnabled()
}

// EnableMetrics enables metrics collection for the channel shared by this handle.
func (r *Receiver[T]) EnableMetrics(config metrics.Config) error {
	return r.core.enableMetrics(config)
}

// DisableMetrics disables metrics collection for the channel shared by this handle.
func (r *Receiver[T]) DisableMetrics() {
	r.core.disableMetrics()
}

// MetricsEnabled returns true if metrics are currently enabled.
func (r *Receiver[T]) MetricsEnabled() bool {
	return r.core.metricsEnabled()
}
