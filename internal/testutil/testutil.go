package testutil

import (
  "context"
  "sync/atomic"
  "testing"
  "time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
  t.Helper()
  return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
  t.Helper()
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
  t.Helper()
  if err == nil {
    t.Fatal("expected error, got nil")
  }
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
  t.Helper()
  if got != want {
    t.Fatalf("got %v, want %v", got, want)
  }
}

// AssertNotEqual fails the test if got == want
func AssertNotEqual[T comparable](t *testing.T, got, want T) {
  t.Helper()
  if got == want {
    t.Fatalf("got %v, want a different value", got)
  }
}

// Eventually polls condition at the given interval until it returns true,
// failing the test if the timeout elapses first
func Eventually(t *testing.T, condition func() bool, timeout, interval time.Duration) {
  t.Helper()
  deadline := time.Now().Add(timeout)
  for time.Now().Before(deadline) {
    if condition() {
      return
    }
    time.Sleep(interval)
  }
  if condition() {
    return
  }
  t.Fatalf("condition not met within %v", timeout)
}

// AssertEventually polls condition with sensible defaults (1s timeout, 10ms interval)
func AssertEventually(t *testing.T, condition func() bool) {
  t.Helper()
  Eventually(t, condition, time.Second, 10*time.Millisecond)
}

// EventuallyWithContext polls condition at the given interval until it returns
// true, failing the test if the context is done first
func EventuallyWithContext(t *testing.T, ctx context.Context, condition func() bool, interval time.Duration) {
  t.Helper()
  for {
    if condition() {
      return
    }
    select {
    case <-ctx.Done():
      t.Fatalf("condition not met before context done: %v", ctx.Err())
    case <-time.After(interval):
    }
  }
}

// WaitForInt32 polls the atomic value until it equals want, failing the test
// if the timeout elapses first
func WaitForInt32(t *testing.T, value *int32, want int32, timeout time.Duration) {
  t.Helper()
  Eventually(t, func() bool {
    return atomic.LoadInt32(value) == want
  }, timeout, time.Millisecond)
}

// WaitForInt64 polls the atomic value until it equals want, failing the test
// if the timeout elapses first
func WaitForInt64(t *testing.T, value *int64, want int64, timeout time.Duration) {
  t.Helper()
  Eventually(t, func() bool {
    return atomic.LoadInt64(value) == want
  }, timeout, time.Millisecond)
}
