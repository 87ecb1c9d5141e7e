/*
Package overchan provides bounded channels that shed load by evicting their
oldest values instead of blocking senders.

Overwrite Channels (pkg/overwrite):
  - Sender/Receiver: cloneable handles over a bounded channel
  - SendOverwrite: never blocks, reports exactly what it displaced
  - Plain Send/TrySend/Receive for conventional bounded semantics

Sampling (pkg/sampler):
  - Sampler: cron or interval-driven sampling into an overwrite channel
  - Slow consumers always observe the freshest values

Building Blocks:
  - fifo: the bounded FIFO queue underneath the channel surface
  - metrics: Prometheus collectors shared by channels and samplers

Example usage:

	import "github.com/vnykmshr/overchan/pkg/overwrite"

	tx, rx, _ := overwrite.Bounded[string](64)

	// Sends keep going even when nobody receives
	evicted, _ := tx.SendOverwrite("reading")
	for _, old := range evicted {
		log.Printf("dropped %s", old)
	}

	val, _ := rx.Receive(ctx)
*/
package overchan
