// Package sampler provides periodic sampling into overwrite channels.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	ocerrors "github.com/vnykmshr/overchan/pkg/common/errors"
	"github.com/vnykmshr/overchan/pkg/common/validation"
	"github.com/vnykmshr/overchan/pkg/metrics"
	"github.com/vnykmshr/overchan/pkg/overwrite"
)

// cronParser accepts standard cron expressions with a leading seconds field.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Config holds sampler configuration.
type Config[T any] struct {
	// Schedule is a cron expression with a seconds field, e.g. "*/5 * * * * *".
	// Takes precedence over Interval when both are set.
	Schedule string

	// Interval is a fixed sampling period, used when Schedule is empty.
	Interval time.Duration

	// Sample produces one value per tick. Required.
	Sample func(ctx context.Context) (T, error)

	// Capacity bounds the output channel. Must be positive.
	Capacity int

	// Name identifies the sampler in metrics (default: "sampler").
	Name string

	// Location is the time zone for cron scheduling (default: time.Local).
	Location *time.Location

	// OnEvict is invoked for each value displaced from the output channel.
	OnEvict func(value T)

	// Metrics configures metrics collection.
	Metrics metrics.Config
}

// Sampler periodically invokes a sample function and publishes results into
// an overwrite channel, so consumers that fall behind observe the freshest
// values instead of stalling the sampling loop.
type Sampler[T any] struct {
	name   string
	sample func(ctx context.Context) (T, error)
	next   func(time.Time) time.Time
	tx     *overwrite.Sender[T]

	runs   int64
	errors int64

	registry *metrics.Registry

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a sampler driven by a cron schedule with a seconds field.
// It returns the sampler and the receiving end of its output channel.
func New[T any](schedule string, sample func(ctx context.Context) (T, error), capacity int) (*Sampler[T], *overwrite.Receiver[T], error) {
	return NewWithConfig(Config[T]{
		Schedule: schedule,
		Sample:   sample,
		Capacity: capacity,
	})
}

// NewInterval creates a sampler that fires at a fixed interval.
func NewInterval[T any](every time.Duration, sample func(ctx context.Context) (T, error), capacity int) (*Sampler[T], *overwrite.Receiver[T], error) {
	if err := validation.ValidatePositiveDuration("sampler", "interval", every); err != nil {
		return nil, nil, err
	}
	return NewWithConfig(Config[T]{
		Interval: every,
		Sample:   sample,
		Capacity: capacity,
	})
}

// NewWithConfig creates a sampler with custom configuration.
func NewWithConfig[T any](config Config[T]) (*Sampler[T], *overwrite.Receiver[T], error) {
	if config.Sample == nil {
		return nil, nil, ocerrors.NewValidationError("sampler", "sample", nil, "cannot be nil").
			WithHint("provide a valid sample")
	}
	if err := validation.ValidatePositive("sampler", "capacity", config.Capacity); err != nil {
		return nil, nil, err
	}

	name := config.Name
	if name == "" {
		name = "sampler"
	}

	location := config.Location
	if location == nil {
		location = time.Local
	}

	var next func(time.Time) time.Time
	switch {
	case config.Schedule != "":
		schedule, err := cronParser.Parse(config.Schedule)
		if err != nil {
			return nil, nil, ocerrors.NewValidationError("sampler", "schedule", config.Schedule, err.Error())
		}
		next = func(t time.Time) time.Time {
			return schedule.Next(t.In(location))
		}
	case config.Interval != 0:
		if err := validation.ValidatePositiveDuration("sampler", "interval", config.Interval); err != nil {
			return nil, nil, err
		}
		every := config.Interval
		next = func(t time.Time) time.Time {
			return t.Add(every)
		}
	default:
		return nil, nil, validation.ValidateNotEmpty("sampler", "schedule", config.Schedule)
	}

	tx, rx, err := overwrite.BoundedWithConfig(overwrite.Config[T]{
		Capacity: config.Capacity,
		Name:     name,
		OnEvict:  config.OnEvict,
		Metrics:  config.Metrics,
	})
	if err != nil {
		return nil, nil, err
	}

	return &Sampler[T]{
		name:     name,
		sample:   config.Sample,
		next:     next,
		tx:       tx,
		registry: metrics.RegistryFor(config.Metrics),
	}, rx, nil
}

// Start begins the sampling loop. It returns an error if the sampler is
// already running or has been stopped.
func (s *Sampler[T]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return fmt.Errorf("sampler is stopped and cannot be restarted")
	}
	if s.running {
		return fmt.Errorf("sampler already running, call Stop() first")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
	return nil
}

// Stop halts the sampling loop and closes the send side of the output
// channel, so receivers drain buffered values and then observe closure.
// The returned channel is closed once shutdown completes. A stopped
// sampler cannot be restarted.
func (s *Sampler[T]) Stop() <-chan struct{} {
	stopped := make(chan struct{})

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		close(stopped)
		return stopped
	}
	s.stopped = true
	wasRunning := s.running
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if !wasRunning {
		_ = s.tx.Close()
		close(stopped)
		return stopped
	}

	cancel()
	go func() {
		defer close(stopped)
		<-done
	}()
	return stopped
}

// Runs returns the number of sampling rounds started so far.
func (s *Sampler[T]) Runs() int64 {
	return atomic.LoadInt64(&s.runs)
}

// Errors returns the number of failed sampling rounds. A round fails when
// the sample function returns an error or panics, or when publishing the
// result fails.
func (s *Sampler[T]) Errors() int64 {
	return atomic.LoadInt64(&s.errors)
}

func (s *Sampler[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() { _ = s.tx.Close() }()

	timer := time.NewTimer(time.Until(s.next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runSample(ctx)
			// Missed ticks are skipped, not replayed
			timer.Reset(time.Until(s.next(time.Now())))
		}
	}
}

func (s *Sampler[T]) runSample(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			// Sample panicked, count it and keep the loop running
			atomic.AddInt64(&s.errors, 1)
			s.recordError()
		}
	}()

	atomic.AddInt64(&s.runs, 1)
	s.recordRun()

	value, err := s.sample(ctx)
	if err != nil {
		atomic.AddInt64(&s.errors, 1)
		s.recordError()
		return
	}

	if _, err := s.tx.SendOverwriteContext(ctx, value); err != nil && ctx.Err() == nil {
		atomic.AddInt64(&s.errors, 1)
		s.recordError()
	}
}

func (s *Sampler[T]) recordRun() {
	if s.registry == nil {
		return
	}
	s.registry.SamplerRuns.WithLabelValues(s.name).Inc()
}

func (s *Sampler[T]) recordError() {
	if s.registry == nil {
		return
	}
	s.registry.SamplerErrors.WithLabelValues(s.name).Inc()
}
