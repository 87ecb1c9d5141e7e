/*
Package fifo provides the bounded FIFO queue underlying the overwrite channel.

The queue is a plain circular buffer guarded by a mutex with condition
variables for the blocking paths. What sets it apart from a buffered Go
channel is its split lifecycle, which the overwrite layer depends on:

  - Close shuts the send side. Buffered items stay receivable until drained,
    after which receives report ErrClosed. This is what happens when the last
    sender handle of a channel is closed.
  - Disconnect declares the receive side gone. Sends fail immediately with
    ErrClosed and buffered items are abandoned. This is what happens when the
    last receiver handle of a channel is closed.

Basic usage:

	q, err := fifo.New[string](16)
	if err != nil {
		return err
	}

	if err := q.TrySend("job"); err == fifo.ErrFull {
		// No room; caller decides whether to wait, drop, or evict.
	}

	value, ok, err := q.TryReceive()
	if ok {
		process(value)
	}

Blocking variants take a context and return ctx.Err() promptly when it is
canceled while waiting:

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	value, err := q.Receive(ctx)

Both sentinel errors wrap the shared kinds in pkg/common/errors, so
errors.Is(err, ocerrors.ErrCapacityExceeded) matches ErrFull and
errors.Is(err, ocerrors.ErrClosed) matches ErrClosed.

All operations are safe for concurrent use from any number of goroutines.
*/
package fifo
