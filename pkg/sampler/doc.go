// Package sampler provides periodic sampling into overwrite channels.
//
// A Sampler invokes a sample function on a schedule and publishes each result
// into a bounded overwrite channel. Consumers that fall behind never stall the
// sampling loop; the channel evicts its oldest values instead, so a reader
// always finds the freshest samples when it catches up.
//
// Basic Usage:
//
//	sample := func(ctx context.Context) (float64, error) {
//		return readTemperature()
//	}
//
//	// Sample every 5 seconds, keep the latest 10 readings
//	s, rx, err := sampler.New("*/5 * * * * *", sample, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() { <-s.Stop() }()
//	defer rx.Close()
//
//	s.Start()
//
//	for {
//		reading, err := rx.Receive(ctx)
//		if err != nil {
//			break // Sampler stopped
//		}
//		process(reading)
//	}
//
// Scheduling:
//
// Two scheduling modes are supported. Cron expressions use a seconds field,
// so "*/5 * * * * *" fires every five seconds. Fixed intervals tick relative
// to the completion of the previous round:
//
//	// Cron schedule
//	s, rx, err := sampler.New("0 * * * * *", sample, 10)
//
//	// Fixed interval
//	s, rx, err := sampler.NewInterval(time.Second, sample, 10)
//
// Sampling rounds run sequentially. A slow sample function delays the next
// round rather than overlapping with it, and missed cron ticks are skipped.
//
// Output Channel:
//
// The receiver returned by the constructors is a regular overwrite channel
// receiver. Clone it for multiple consumers, and close every handle when
// done. Stop closes the send side, so receivers drain any buffered samples
// and then observe closure:
//
//	s.Start()
//	// ...
//	<-s.Stop()
//
//	for {
//		val, err := rx.Receive(ctx)
//		if err != nil {
//			break // Drained and closed
//		}
//	}
//
// Error Handling:
//
// Sample failures never stop the loop. A round counts as failed when the
// sample function returns an error or panics, or when the publish fails
// because every receiver was closed:
//
//	s, rx, _ := sampler.NewInterval(time.Second, flaky, 10)
//	s.Start()
//	// ...
//	log.Printf("sampled %d times, %d failures", s.Runs(), s.Errors())
//
// Monitoring:
//
// With metrics enabled, samplers publish run and failure counters alongside
// the output channel's metrics:
//
//	s, rx, err := sampler.NewWithConfig(sampler.Config[float64]{
//		Interval: time.Second,
//		Sample:   sample,
//		Capacity: 10,
//		Name:     "temperature",
//		Metrics:  metrics.DefaultConfig(),
//	})
package sampler
