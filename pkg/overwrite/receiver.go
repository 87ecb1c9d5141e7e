package overwrite

import (
	"context"
	"sync/atomic"
)

// Receiver is the consuming handle of an overwrite channel. Handles may be
// cloned for use from multiple goroutines; each buffered value is delivered
// to exactly one of them. Once every Receiver is closed the channel is dead
// and all sends fail.
type Receiver[T any] struct {
	core   *core[T]
	closed int32
}

// Receive returns the oldest buffered value, waiting for one when the
// channel is empty. A receiver waiting on an empty channel never observes a
// value that an overwrite send evicts later; it simply keeps waiting for the
// value that replaced it. After the last Sender closes, Receive drains the
// remaining values and then returns ErrClosed. A cancellation while waiting
// returns ctx.Err().
func (r *Receiver[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	if atomic.LoadInt32(&r.closed) != 0 {
		return zero, ErrClosed
	}

	value, err := r.core.queue.Receive(ctx)
	if err != nil {
		return zero, translateQueueError(err)
	}

	atomic.AddInt64(&r.core.receiveCount, 1)
	r.core.recordReceive()
	return value, nil
}

// TryReceive returns the oldest buffered value without blocking. The second
// return value reports whether a value was dequeued.
func (r *Receiver[T]) TryReceive() (T, bool, error) {
	var zero T
	if atomic.LoadInt32(&r.closed) != 0 {
		return zero, false, ErrClosed
	}

	value, ok, err := r.core.queue.TryReceive()
	if err != nil {
		return zero, false, translateQueueError(err)
	}
	if !ok {
		return zero, false, nil
	}

	atomic.AddInt64(&r.core.receiveCount, 1)
	r.core.recordReceive()
	return value, true, nil
}

// Len returns the current number of buffered values.
func (r *Receiver[T]) Len() int {
	return r.core.queue.Len()
}

// Cap returns the channel capacity.
func (r *Receiver[T]) Cap() int {
	return r.core.queue.Cap()
}

// Stats returns the channel counters.
func (r *Receiver[T]) Stats() Stats {
	return r.core.stats()
}

// Clone returns a new Receiver sharing this channel. Cloning a closed handle
// yields another closed handle.
func (r *Receiver[T]) Clone() *Receiver[T] {
	if atomic.LoadInt32(&r.closed) != 0 {
		return &Receiver[T]{core: r.core, closed: 1}
	}
	atomic.AddInt64(&r.core.receivers, 1)
	return &Receiver[T]{core: r.core}
}

// Close detaches this handle. When the last Receiver is closed the channel
// disconnects: buffered values are abandoned and every send fails with
// ErrClosed. Close is idempotent per handle.
func (r *Receiver[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil // Already closed
	}
	return r.core.closeReceiver()
}
