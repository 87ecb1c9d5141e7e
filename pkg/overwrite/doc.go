/*
Package overwrite provides bounded channels that never block the producer:
when the buffer is full, a send evicts the oldest unread values to make room
and reports exactly which values were displaced.

A standard bounded queue gives a producer two options when the consumer falls
behind: wait, or fail. This package adds a third: keep going and sacrifice
the stalest data. That is the natural contract for telemetry feeds, UI state,
progress reporting, sensor sampling, and any other stream where the newest
value matters more than a complete history.

Key Components:
  - Sender: producing handle with overwrite and plain transport sends
  - Receiver: consuming handle; a plain FIFO view, unaware of evictions
  - Eviction reporting: every overwrite send returns the values it displaced
  - Cloneable handles with reference-counted channel lifecycle

Basic Usage:

	tx, rx, err := overwrite.Bounded[string](2)
	if err != nil {
		return err
	}
	defer tx.Close()
	defer rx.Close()

	tx.SendOverwrite("first")
	tx.SendOverwrite("second")

	// Buffer is full; the next send evicts "first".
	evicted, _ := tx.SendOverwrite("third")
	fmt.Println(evicted) // [first]

	value, _ := rx.Receive(ctx)
	fmt.Println(value) // second

The Overwrite Contract:

SendOverwrite succeeds on every channel that still has receivers. It never
waits for consumer progress: a completely stalled receiver cannot block the
producer, it can only cost the receiver the values it failed to collect.

	evicted, err := tx.SendOverwrite(reading)
	switch {
	case err != nil:
		// All receivers are gone; the channel is dead.
	case evicted != nil:
		// reading was accepted and evicted listed values, oldest first.
	default:
		// reading was accepted; the buffer had spare room.
	}

Concurrent overwrite sends are serialized against each other, so each call
observes a coherent full-evict-insert cycle and the eviction reports of
concurrent calls never overlap: every value is either delivered to exactly
one receiver or reported evicted by exactly one send.

Plain receives and plain sends are not serialized with overwrite sends; they
interleave freely. A receiver that drains the queue between the full check
and the eviction simply spares the oldest value: the send then succeeds
without evicting it.

Suspend Variant:

SendOverwriteContext takes a context that is honored while the call waits
for a concurrent overwrite send to finish. Once the insert-or-evict cycle
starts it runs to completion, so cancellation is all-or-nothing:

	evicted, err := tx.SendOverwriteContext(ctx, reading)
	if errors.Is(err, context.Canceled) {
		// reading was not enqueued and nothing was evicted.
	}

Plain Transport Surface:

Both handles expose the conventional bounded-channel operations for callers
that want backpressure instead of eviction:

	err := tx.Send(ctx, value)      // waits for space
	err := tx.TrySend(value)        // ErrFull when at capacity
	value, err := rx.Receive(ctx)   // waits for a value
	value, ok, err := rx.TryReceive()

Handles and Lifecycle:

Senders and Receivers are cloneable; clones share the channel:

	tx2 := tx.Clone()
	go producer(tx2) // tx2.Close() when done

The channel tracks handle counts on each side:

  - When the last Sender closes, the send side shuts down. Receivers drain
    the buffered values and then see ErrClosed.
  - When the last Receiver closes, the channel disconnects. Buffered values
    are abandoned and every send fails with ErrClosed immediately.

ErrClosed is the only failure mode of an overwrite send: a channel with a
full buffer is not an error, and a channel with live receivers never rejects
a value.

Eviction Notification:

Configure OnEvict to observe displaced values regardless of which send
displaced them, for example to count losses or audit them:

	tx, rx, err := overwrite.BoundedWithConfig(overwrite.Config[Event]{
		Capacity: 256,
		Name:     "events",
		OnEvict: func(e Event) {
			log.Printf("dropped event %s", e.ID)
		},
	})

Statistics and Metrics:

Stats returns channel-wide counters:

	stats := tx.Stats()
	fmt.Printf("sent=%d received=%d evicted=%d util=%.0f%%\n",
		stats.SendCount, stats.ReceiveCount, stats.EvictedCount,
		stats.BufferUtilization*100)

Prometheus instrumentation is available through the metrics-enabled
constructors; see the metrics package:

	tx, rx, err := overwrite.BoundedWithMetrics[Reading](64, "sensor_feed")

Receivers and Evictions:

A Receiver never observes an eviction. A receiver blocked on an empty
channel whose awaited value is later displaced keeps waiting and gets the
value that replaced it. Values an overwrite send evicts are returned to that
sender, not delivered; each value therefore leaves the channel exactly once.

Thread Safety:

All operations on both handles are safe for concurrent use from any number
of goroutines. Handles are cheap; clone one per goroutine or share one,
whichever fits the program.
*/
package overwrite
