package overwrite

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	ocerrors "github.com/vnykmshr/overchan/pkg/common/errors"
	"github.com/vnykmshr/overchan/pkg/common/validation"
	"github.com/vnykmshr/overchan/pkg/fifo"
	"github.com/vnykmshr/overchan/pkg/metrics"
)

// ErrClosed is returned when operating on a channel whose other side is gone:
// sends fail once every Receiver is closed, receives fail once every Sender
// is closed and the buffer has drained.
var ErrClosed = fmt.Errorf("channel is closed: %w", ocerrors.ErrClosed)

// ErrFull is returned by TrySend when the channel is at capacity. Overwrite
// sends never return it; they evict instead.
var ErrFull = fmt.Errorf("channel is full: %w", ocerrors.ErrCapacityExceeded)

// Config holds configuration for an overwrite channel.
type Config[T any] struct {
	// Capacity is the number of values the channel buffers. Must be at least 1.
	Capacity int

	// Name identifies the channel in metrics labels.
	Name string

	// OnEvict is called once per evicted value, after the send that displaced
	// it has completed. Callbacks run on the sending goroutine; keep them fast.
	OnEvict func(value T)

	// Metrics configures Prometheus instrumentation (disabled by default).
	Metrics metrics.Config
}

// DefaultConfig returns a default configuration: a single-slot channel that
// always holds the most recent value, with metrics disabled.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{
		Capacity: 1,
		Name:     "overwrite",
	}
}

// Stats holds counters for one channel, aggregated across all handles.
type Stats struct {
	// SendCount is the total number of values accepted into the channel.
	SendCount int64

	// ReceiveCount is the total number of values handed to receivers.
	ReceiveCount int64

	// EvictedCount is the total number of values displaced by overwrite sends.
	EvictedCount int64

	// BufferUtilization is the current buffer fill ratio (0.0 to 1.0).
	BufferUtilization float64
}

// core is the state shared by every Sender and Receiver handle of one channel.
type core[T any] struct {
	queue *fifo.Queue[T]
	name  string

	// sem serializes overwrite sends against each other so each call sees a
	// coherent insert-or-evict cycle. Plain sends and receives bypass it and
	// synchronize on the queue alone.
	sem chan struct{}

	senders   int64
	receivers int64

	sendCount    int64
	receiveCount int64
	evictedCount int64

	onEvict func(T)

	metricsMu sync.RWMutex
	registry  *metrics.Registry
}

// Bounded creates an overwrite channel with the given capacity and returns
// its initial Sender and Receiver handles. Capacity must be at least 1; a
// channel with no buffer has nothing to overwrite.
func Bounded[T any](capacity int) (*Sender[T], *Receiver[T], error) {
	config := DefaultConfig[T]()
	config.Capacity = capacity
	return BoundedWithConfig(config)
}

// BoundedWithConfig creates an overwrite channel from the given configuration.
func BoundedWithConfig[T any](config Config[T]) (*Sender[T], *Receiver[T], error) {
	if err := validation.ValidatePositive("overwrite", "capacity", config.Capacity); err != nil {
		return nil, nil, err
	}
	if config.Name == "" {
		config.Name = DefaultConfig[T]().Name
	}

	queue, err := fifo.New[T](config.Capacity)
	if err != nil {
		return nil, nil, err
	}

	c := &core[T]{
		queue:     queue,
		name:      config.Name,
		sem:       make(chan struct{}, 1),
		senders:   1,
		receivers: 1,
		onEvict:   config.OnEvict,
		registry:  metrics.RegistryFor(config.Metrics),
	}
	c.recordCapacity()

	return &Sender[T]{core: c}, &Receiver[T]{core: c}, nil
}

// BoundedWithMetrics creates an overwrite channel recording to the default
// metrics registry under the given name.
func BoundedWithMetrics[T any](capacity int, name string) (*Sender[T], *Receiver[T], error) {
	config := DefaultConfig[T]()
	config.Capacity = capacity
	config.Name = name
	config.Metrics = metrics.DefaultConfig()
	return BoundedWithConfig(config)
}

// sendOverwrite runs the insert-or-evict cycle. The caller must hold sem.
// The returned slice lists the values this call removed, oldest first; it is
// also returned alongside an error so the caller can still notify OnEvict
// about values that were displaced before the channel turned out closed.
func (c *core[T]) sendOverwrite(value T) ([]T, error) {
	var evicted []T

	for {
		switch err := c.queue.TrySend(value); err {
		case nil:
			atomic.AddInt64(&c.sendCount, 1)
			if len(evicted) > 0 {
				atomic.AddInt64(&c.evictedCount, int64(len(evicted)))
			}
			c.recordOverwriteSend(len(evicted))
			return evicted, nil

		case fifo.ErrFull:
			// Evict the oldest and retry. A concurrent receive may beat us
			// to the head; the insert then succeeds without an eviction.
			old, ok, rerr := c.queue.TryReceive()
			if rerr != nil {
				atomic.AddInt64(&c.evictedCount, int64(len(evicted)))
				return evicted, ErrClosed
			}
			if ok {
				evicted = append(evicted, old)
			}

		default:
			atomic.AddInt64(&c.evictedCount, int64(len(evicted)))
			return evicted, ErrClosed
		}
	}
}

// notifyEvicted fires the OnEvict callback for each displaced value. Called
// after sem is released so slow callbacks cannot stall other senders.
func (c *core[T]) notifyEvicted(evicted []T) {
	if c.onEvict == nil {
		return
	}
	for _, old := range evicted {
		c.onEvict(old)
	}
}

// translateQueueError maps fifo sentinels onto the channel's own error
// surface. Context errors pass through unchanged.
func translateQueueError(err error) error {
	switch {
	case errors.Is(err, fifo.ErrClosed):
		return ErrClosed
	case errors.Is(err, fifo.ErrFull):
		return ErrFull
	default:
		return err
	}
}

// stats assembles a point-in-time view of the channel counters.
func (c *core[T]) stats() Stats {
	s := Stats{
		SendCount:    atomic.LoadInt64(&c.sendCount),
		ReceiveCount: atomic.LoadInt64(&c.receiveCount),
		EvictedCount: atomic.LoadInt64(&c.evictedCount),
	}
	if capacity := c.queue.Cap(); capacity > 0 {
		s.BufferUtilization = float64(c.queue.Len()) / float64(capacity)
	}
	return s
}

// closeSender detaches one sender handle. The last one closes the queue's
// send side so receivers drain the remaining values and then see ErrClosed.
func (c *core[T]) closeSender() error {
	if atomic.AddInt64(&c.senders, -1) == 0 {
		return c.queue.Close()
	}
	return nil
}

// closeReceiver detaches one receiver handle. The last one disconnects the
// queue so every subsequent send fails with ErrClosed.
func (c *core[T]) closeReceiver() error {
	if atomic.AddInt64(&c.receivers, -1) == 0 {
		return c.queue.Disconnect()
	}
	return nil
}
