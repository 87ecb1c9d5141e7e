package benchmark

import (
	"context"
	"sync"
	"testing"

	"github.com/vnykmshr/overchan/pkg/fifo"
)

// BenchmarkFifoTryOperations measures the queue's non-blocking hot path.
func BenchmarkFifoTryOperations(b *testing.B) {
	q, err := fifo.New[int](1024)
	if err != nil {
		b.Fatalf("failed to create queue: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = q.TrySend(i)
		_, _, _ = q.TryReceive()
	}
}

// BenchmarkFifoBlockingSend measures blocking sends with a draining consumer.
func BenchmarkFifoBlockingSend(b *testing.B) {
	bufferSizes := []int{10, 100, 1000}

	for _, bufSize := range bufferSizes {
		b.Run(sizeLabel(bufSize), func(b *testing.B) {
			q, err := fifo.New[int](bufSize)
			if err != nil {
				b.Fatalf("failed to create queue: %v", err)
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				ctx := context.Background()
				for {
					if _, err := q.Receive(ctx); err != nil {
						return
					}
				}
			}()

			b.ReportAllocs()
			b.ResetTimer()
			ctx := context.Background()
			for i := 0; i < b.N; i++ {
				_ = q.Send(ctx, i)
			}
			b.StopTimer()

			q.Close()
			<-done
		})
	}
}

// BenchmarkFifoContention measures concurrent producers and consumers.
func BenchmarkFifoContention(b *testing.B) {
	producers := 4
	consumers := 2

	q, err := fifo.New[int](256)
	if err != nil {
		b.Fatalf("failed to create queue: %v", err)
	}

	var consumerWg sync.WaitGroup
	consumerWg.Add(consumers)
	for i := 0; i < consumers; i++ {
		go func() {
			defer consumerWg.Done()
			ctx := context.Background()
			for {
				if _, err := q.Receive(ctx); err != nil {
					return
				}
			}
		}()
	}

	b.ReportAllocs()
	b.ResetTimer()

	var producerWg sync.WaitGroup
	perProducer := b.N / producers
	producerWg.Add(producers)

	for p := 0; p < producers; p++ {
		go func() {
			defer producerWg.Done()
			ctx := context.Background()
			for i := 0; i < perProducer; i++ {
				_ = q.Send(ctx, i)
			}
		}()
	}

	producerWg.Wait()
	b.StopTimer()

	q.Close()
	consumerWg.Wait()
}
