package overwrite

import (
	"context"
	"sync/atomic"
)

// Sender is the producing handle of an overwrite channel. Handles may be
// cloned for use from multiple goroutines; the channel's send side stays open
// until every Sender is closed.
type Sender[T any] struct {
	core   *core[T]
	closed int32
}

// SendOverwrite delivers value without ever waiting for a receiver. When the
// channel is full it evicts the oldest buffered values to make room and
// returns them oldest first; a nil slice means nothing was evicted. The call
// blocks only while another overwrite send is in progress. It returns
// ErrClosed once every Receiver has been closed.
func (s *Sender[T]) SendOverwrite(value T) ([]T, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return nil, ErrClosed
	}

	c := s.core
	c.sem <- struct{}{}
	evicted, err := c.sendOverwrite(value)
	<-c.sem

	c.notifyEvicted(evicted)
	if err != nil {
		return nil, err
	}
	return evicted, nil
}

// SendOverwriteContext behaves like SendOverwrite. The context is honored
// only while waiting for a concurrent overwrite send to finish; once the
// insert-or-evict cycle starts it runs to completion, so a cancellation
// never leaves the channel half-updated.
func (s *Sender[T]) SendOverwriteContext(ctx context.Context, value T) ([]T, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return nil, ErrClosed
	}

	// Check for cancellation before racing the semaphore select
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := s.core
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	evicted, err := c.sendOverwrite(value)
	<-c.sem

	c.notifyEvicted(evicted)
	if err != nil {
		return nil, err
	}
	return evicted, nil
}

// Send is the plain backpressure send: it waits for buffer space instead of
// evicting. It returns ErrClosed once every Receiver has been closed and
// ctx.Err() when the context is canceled while waiting.
func (s *Sender[T]) Send(ctx context.Context, value T) error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrClosed
	}

	if err := s.core.queue.Send(ctx, value); err != nil {
		return translateQueueError(err)
	}

	atomic.AddInt64(&s.core.sendCount, 1)
	s.core.recordPlainSend()
	return nil
}

// TrySend attempts to enqueue value without blocking or evicting. It returns
// ErrFull when the channel is at capacity.
func (s *Sender[T]) TrySend(value T) error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return ErrClosed
	}

	if err := s.core.queue.TrySend(value); err != nil {
		return translateQueueError(err)
	}

	atomic.AddInt64(&s.core.sendCount, 1)
	s.core.recordPlainSend()
	return nil
}

// Len returns the current number of buffered values.
func (s *Sender[T]) Len() int {
	return s.core.queue.Len()
}

// Cap returns the channel capacity.
func (s *Sender[T]) Cap() int {
	return s.core.queue.Cap()
}

// Stats returns the channel counters.
func (s *Sender[T]) Stats() Stats {
	return s.core.stats()
}

// Clone returns a new Sender sharing this channel. Cloning a closed handle
// yields another closed handle.
func (s *Sender[T]) Clone() *Sender[T] {
	if atomic.LoadInt32(&s.closed) != 0 {
		return &Sender[T]{core: s.core, closed: 1}
	}
	atomic.AddInt64(&s.core.senders, 1)
	return &Sender[T]{core: s.core}
}

// Close detaches this handle. When the last Sender is closed, the channel's
// send side shuts down: receivers drain the buffered values and then see
// ErrClosed. Close is idempotent per handle.
func (s *Sender[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil // Already closed
	}
	return s.core.closeSender()
}
