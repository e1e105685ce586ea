package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpenko/assetconv/internal/model"
)

func task(input string) model.Task {
	return model.Task{Input: input, Output: "out/" + input + ".png", Size: 64}
}

func TestFIFOOrder(t *testing.T) {
	q := New()
	q.Enqueue(task("a"))
	q.Enqueue(task("b"))

	ctx := context.Background()

	first, ok := q.Dequeue(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", first.Input)

	second, ok := q.Dequeue(ctx)
	require.True(t, ok)
	assert.Equal(t, "b", second.Input)

	assert.Equal(t, 0, q.Len())
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New()

	done := make(chan model.Task, 1)
	go func() {
		got, ok := q.Dequeue(context.Background())
		if ok {
			done <- got
		}
	}()

	// Give the consumer time to park before producing.
	time.Sleep(20 * time.Millisecond)
	q.Enqueue(task("late"))

	select {
	case got := <-done:
		assert.Equal(t, "late", got.Input)
	case <-time.After(time.Second):
		t.Fatal("consumer never woke up")
	}
}

func TestDequeueCanceledContext(t *testing.T) {
	q := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := q.Dequeue(ctx)
	assert.False(t, ok)
}

func TestCloseDrainsRemaining(t *testing.T) {
	q := New()
	q.Enqueue(task("a"))
	q.Enqueue(task("b"))
	q.Close()

	ctx := context.Background()

	first, ok := q.Dequeue(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", first.Input)

	second, ok := q.Dequeue(ctx)
	require.True(t, ok)
	assert.Equal(t, "b", second.Input)

	_, ok = q.Dequeue(ctx)
	assert.False(t, ok)
}

func TestEnqueueAfterCloseDropped(t *testing.T) {
	q := New()
	q.Close()

	assert.False(t, q.Enqueue(task("late")))
	assert.Equal(t, 0, q.Len())
}

func TestCloseIdempotent(t *testing.T) {
	q := New()
	q.Close()
	q.Close()
}

func TestConcurrentConsumersReceiveEachTaskOnce(t *testing.T) {
	const (
		consumers = 4
		total     = 100
	)

	q := New()

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	wg.Add(consumers)
	for i := 0; i < consumers; i++ {
		go func() {
			defer wg.Done()
			for {
				got, ok := q.Dequeue(context.Background())
				if !ok {
					return
				}
				mu.Lock()
				seen[got.Input]++
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < total; i++ {
		q.Enqueue(task(fmt.Sprintf("task-%03d", i)))
	}
	q.Close()
	wg.Wait()

	count := 0
	for input, n := range seen {
		assert.Equal(t, 1, n, "task %q delivered %d times", input, n)
		count += n
	}
	assert.Equal(t, total, count)
}
