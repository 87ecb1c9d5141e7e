package fifo

import (
	"context"
	"fmt"
	"sync"

	ocerrors "github.com/vnykmshr/overchan/pkg/common/errors"
	"github.com/vnykmshr/overchan/pkg/common/validation"
)

// ErrFull is returned by TrySend when the queue is at capacity.
var ErrFull = fmt.Errorf("queue is full: %w", ocerrors.ErrCapacityExceeded)

// ErrClosed is returned when attempting to operate on a closed queue.
var ErrClosed = fmt.Errorf("queue is closed: %w", ocerrors.ErrClosed)

// Queue is a fixed-capacity FIFO queue safe for concurrent use by multiple
// producers and consumers. It distinguishes the two ends of its lifecycle:
// Close shuts the send side while buffered items remain receivable, and
// Disconnect marks the receive side gone so that all sends fail.
type Queue[T any] struct {
	mu  sync.Mutex
	buf []T

	head  int
	tail  int
	count int

	closed       bool
	disconnected bool

	notEmpty *sync.Cond
	notFull  *sync.Cond
}

// New creates a queue holding at most capacity items.
// Capacity must be at least 1.
func New[T any](capacity int) (*Queue[T], error) {
	if err := validation.ValidatePositive("fifo", "capacity", capacity); err != nil {
		return nil, err
	}

	q := &Queue[T]{
		buf: make([]T, capacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)

	return q, nil
}

// TrySend enqueues value without blocking. It returns ErrFull when the queue
// is at capacity and ErrClosed when the queue is closed or disconnected.
func (q *Queue[T]) TrySend(value T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.disconnected {
		return ErrClosed
	}
	if q.count == len(q.buf) {
		return ErrFull
	}

	q.enqueueLocked(value)
	q.notEmpty.Signal()

	return nil
}

// Send enqueues value, waiting for space when the queue is full. It returns
// ErrClosed when the queue is closed or disconnected and ctx.Err() when the
// context is canceled while waiting.
func (q *Queue[T]) Send(ctx context.Context, value T) error {
	// Wake the cond loop when ctx fires; Wait alone cannot observe it.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.notFull.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.buf) && !q.closed && !q.disconnected && ctx.Err() == nil {
		q.notFull.Wait()
	}

	if q.closed || q.disconnected {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		// Hand any free slot this sender was woken for to another waiter.
		q.notFull.Signal()
		return err
	}

	q.enqueueLocked(value)
	q.notEmpty.Signal()

	return nil
}

// TryReceive dequeues the oldest item without blocking. The second return
// value reports whether an item was dequeued. An empty open queue yields
// (zero, false, nil); an empty closed queue yields (zero, false, ErrClosed).
// Buffered items remain receivable after Close but not after Disconnect.
func (q *Queue[T]) TryReceive() (T, bool, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disconnected {
		return zero, false, ErrClosed
	}
	if q.count == 0 {
		if q.closed {
			return zero, false, ErrClosed
		}
		return zero, false, nil
	}

	value := q.dequeueLocked()
	q.notFull.Signal()

	return value, true, nil
}

// Receive dequeues the oldest item, waiting when the queue is empty. After
// Close it drains the remaining items and then returns ErrClosed; after
// Disconnect it returns ErrClosed immediately. A cancellation while waiting
// returns ctx.Err().
func (q *Queue[T]) Receive(ctx context.Context) (T, error) {
	var zero T

	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.notEmpty.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed && !q.disconnected && ctx.Err() == nil {
		q.notEmpty.Wait()
	}

	if q.disconnected {
		return zero, ErrClosed
	}
	if q.count > 0 {
		value := q.dequeueLocked()
		q.notFull.Signal()
		return value, nil
	}
	if q.closed {
		return zero, ErrClosed
	}

	return zero, ctx.Err()
}

// Len returns the current number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Close shuts the send side of the queue. Subsequent sends fail with
// ErrClosed while buffered items remain receivable. Close is idempotent.
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()

	return nil
}

// Disconnect marks the receive side gone. All subsequent operations fail with
// ErrClosed and buffered items are abandoned. Disconnect is idempotent.
func (q *Queue[T]) Disconnect() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disconnected {
		return nil
	}
	q.disconnected = true

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()

	return nil
}

// enqueueLocked adds a value to the ring buffer (must hold lock).
func (q *Queue[T]) enqueueLocked(value T) {
	q.buf[q.tail] = value
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
}

// dequeueLocked removes a value from the ring buffer (must hold lock).
func (q *Queue[T]) dequeueLocked() T {
	value := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // Clear reference
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return value
}
