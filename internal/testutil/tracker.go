package testutil

import (
	"sync"
	"testing"
)

// CallbackTracker records invocations of a callback under test. It is safe
// for concurrent use, so callbacks fired from library goroutines can be
// asserted on from the test goroutine.
type CallbackTracker struct {
	mu        sync.Mutex
	callCount int
	lastValue interface{}
}

// NewCallbackTracker creates an empty tracker.
func NewCallbackTracker() *CallbackTracker {
	return &CallbackTracker{}
}

// Mark records one invocation. An optional value is remembered as the most
// recent callback argument.
func (c *CallbackTracker) Mark(value ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callCount++
	if len(value) > 0 {
		c.lastValue = value[len(value)-1]
	}
}

// Called reports whether Mark has been invoked at least once.
func (c *CallbackTracker) Called() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount > 0
}

// CallCount returns the number of Mark invocations.
func (c *CallbackTracker) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount
}

// Value returns the most recent value passed to Mark, or nil.
func (c *CallbackTracker) Value() interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastValue
}

// Reset clears the recorded invocations.
func (c *CallbackTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callCount = 0
	c.lastValue = nil
}

// AssertCalled fails the test if the callback was never invoked.
func (c *CallbackTracker) AssertCalled(t *testing.T) {
	t.Helper()
	if !c.Called() {
		t.Fatal("expected callback to be called")
	}
}

// AssertNotCalled fails the test if the callback was invoked.
func (c *CallbackTracker) AssertNotCalled(t *testing.T) {
	t.Helper()
	if c.Called() {
		t.Fatalf("expected callback not to be called, got %d calls", c.CallCount())
	}
}

// AssertCallCount fails the test if the callback was not invoked exactly want times.
func (c *CallbackTracker) AssertCallCount(t *testing.T, want int) {
	t.Helper()
	if got := c.CallCount(); got != want {
		t.Fatalf("callback called %d times, want %d", got, want)
	}
}
