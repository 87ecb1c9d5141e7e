package sampler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/overchan/internal/testutil"
	ocerrors "github.com/vnykmshr/overchan/pkg/common/errors"
	"github.com/vnykmshr/overchan/pkg/metrics"
	"github.com/vnykmshr/overchan/pkg/overwrite"
)

func countingSample(n *int64) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return atomic.AddInt64(n, 1), nil
	}
}

func TestNew(t *testing.T) {
	var n int64
	s, rx, err := New("*/5 * * * * *", countingSample(&n), 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertEqual(t, s.Runs(), int64(0))
	testutil.AssertEqual(t, s.Errors(), int64(0))
	testutil.AssertEqual(t, rx.Cap(), 4)

	<-s.Stop()
}

func TestNewInvalidSchedule(t *testing.T) {
	var n int64
	for _, expr := range []string{"not a cron", "* * *", "99 * * * * *"} {
		_, _, err := New(expr, countingSample(&n), 4)
		testutil.AssertError(t, err)
		if !ocerrors.IsValidationError(err) {
			t.Errorf("schedule %q: expected ValidationError, got %T", expr, err)
		}
	}
}

func TestNewIntervalInvalid(t *testing.T) {
	var n int64
	for _, every := range []time.Duration{0, -time.Second} {
		_, _, err := NewInterval(every, countingSample(&n), 4)
		testutil.AssertError(t, err)
		if !ocerrors.IsValidationError(err) {
			t.Errorf("interval %v: expected ValidationError, got %T", every, err)
		}
	}
}

func TestNewWithConfigValidation(t *testing.T) {
	var n int64
	sample := countingSample(&n)

	tests := []struct {
		name   string
		config Config[int64]
	}{
		{"nil sample", Config[int64]{Interval: time.Second, Capacity: 4}},
		{"zero capacity", Config[int64]{Interval: time.Second, Sample: sample}},
		{"negative capacity", Config[int64]{Interval: time.Second, Sample: sample, Capacity: -1}},
		{"no schedule or interval", Config[int64]{Sample: sample, Capacity: 4}},
		{"negative interval", Config[int64]{Interval: -time.Second, Sample: sample, Capacity: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewWithConfig(tt.config)
			testutil.AssertError(t, err)
			if !ocerrors.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
			if !errors.Is(err, ocerrors.ErrInvalidConfiguration) {
				t.Error("error should wrap ErrInvalidConfiguration")
			}
		})
	}
}

func TestSamplingPublishes(t *testing.T) {
	var n int64
	s, rx, err := NewInterval(5*time.Millisecond, countingSample(&n), 8)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	testutil.Eventually(t, func() bool {
		return s.Runs() >= 3
	}, time.Second, time.Millisecond)

	<-s.Stop()

	// Buffered samples drain in sampling order, then the channel closes
	var got []int64
	for {
		val, err := rx.Receive(context.Background())
		if err != nil {
			testutil.AssertEqual(t, err, overwrite.ErrClosed)
			break
		}
		got = append(got, val)
	}

	if len(got) == 0 {
		t.Fatal("expected at least one published sample")
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("samples out of order: %v", got)
		}
	}
	testutil.AssertEqual(t, s.Errors(), int64(0))
}

func TestFreshestValuesSurvive(t *testing.T) {
	var n int64
	s, rx, err := NewInterval(2*time.Millisecond, countingSample(&n), 1)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	// Let several rounds complete without receiving anything
	testutil.Eventually(t, func() bool {
		return s.Runs() >= 5
	}, time.Second, time.Millisecond)

	// Rounds run sequentially, so by the fifth round the first four
	// publishes have completed and the single slot holds at least 4.
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	val, err := rx.Receive(ctx)
	testutil.AssertNoError(t, err)
	if val < 4 {
		t.Errorf("expected a fresh sample, got %d", val)
	}

	<-s.Stop()
}

func TestSampleErrorsCounted(t *testing.T) {
	sampleErr := errors.New("sensor offline")
	s, rx, err := NewInterval(2*time.Millisecond, func(ctx context.Context) (int, error) {
		return 0, sampleErr
	}, 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	// Failures accumulate without stopping the loop
	testutil.Eventually(t, func() bool {
		return s.Errors() >= 3
	}, time.Second, time.Millisecond)

	if s.Runs() < s.Errors() {
		t.Errorf("runs %d below errors %d", s.Runs(), s.Errors())
	}

	<-s.Stop()

	// Nothing was ever published
	_, err = rx.Receive(context.Background())
	testutil.AssertEqual(t, err, overwrite.ErrClosed)
}

func TestSamplePanicRecovered(t *testing.T) {
	var calls int64
	s, rx, err := NewInterval(2*time.Millisecond, func(ctx context.Context) (int64, error) {
		c := atomic.AddInt64(&calls, 1)
		if c == 1 {
			panic("sensor exploded")
		}
		return c, nil
	}, 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	// The loop survives the panic and later rounds still publish
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	val, err := rx.Receive(ctx)
	testutil.AssertNoError(t, err)
	if val < 2 {
		t.Errorf("expected a post-panic sample, got %d", val)
	}

	if s.Errors() != 1 {
		t.Errorf("errors = %d, want 1", s.Errors())
	}

	<-s.Stop()
}

func TestOnEvictForwarded(t *testing.T) {
	tracker := testutil.NewCallbackTracker()

	var n int64
	s, rx, err := NewWithConfig(Config[int64]{
		Interval: 2 * time.Millisecond,
		Sample:   countingSample(&n),
		Capacity: 1,
		OnEvict: func(value int64) {
			tracker.Mark(value)
		},
	})
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	// With no receiver draining, a one-slot channel evicts on every
	// publish after the first
	testutil.Eventually(t, func() bool {
		return tracker.CallCount() >= 2
	}, time.Second, time.Millisecond)

	<-s.Stop()

	if tracker.Value().(int64) < 1 {
		t.Errorf("unexpected evicted value %v", tracker.Value())
	}
}

func TestStartStopLifecycle(t *testing.T) {
	var n int64
	s, rx, err := NewInterval(time.Millisecond, countingSample(&n), 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	if err := s.Start(); err == nil {
		t.Error("second Start should fail while running")
	}

	<-s.Stop()

	// Stopping again completes immediately
	<-s.Stop()

	if err := s.Start(); err == nil {
		t.Error("Start after Stop should fail")
	}
}

func TestStopWithoutStart(t *testing.T) {
	var n int64
	s, rx, err := NewInterval(time.Millisecond, countingSample(&n), 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	<-s.Stop()

	// The output channel closes even though the loop never ran
	_, err = rx.Receive(context.Background())
	testutil.AssertEqual(t, err, overwrite.ErrClosed)
}

func TestCronScheduleFires(t *testing.T) {
	var n int64
	s, rx, err := New("* * * * * *", countingSample(&n), 4)
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	// Every-second schedule: the next boundary is at most one second away
	testutil.Eventually(t, func() bool {
		return s.Runs() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	<-s.Stop()
}

func TestSamplerMetrics(t *testing.T) {
	const name = "sampler_metrics_test"

	var n int64
	s, rx, err := NewWithConfig(Config[int64]{
		Interval: 2 * time.Millisecond,
		Sample:   countingSample(&n),
		Capacity: 4,
		Name:     name,
		Metrics:  metrics.DefaultConfig(),
	})
	testutil.AssertNoError(t, err)
	defer rx.Close()

	testutil.AssertNoError(t, s.Start())

	testutil.Eventually(t, func() bool {
		return s.Runs() >= 2
	}, time.Second, time.Millisecond)

	<-s.Stop()

	reg := metrics.DefaultRegistry
	runs := promtestutil.ToFloat64(reg.SamplerRuns.WithLabelValues(name))
	testutil.AssertEqual(t, runs, float64(s.Runs()))

	errs := promtestutil.ToFloat64(reg.SamplerErrors.WithLabelValues(name))
	testutil.AssertEqual(t, errs, 0.0)
}
