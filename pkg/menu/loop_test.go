package menu

import (
	"context"
	"testing"
	"time"
)

func TestLoopRunsActionsInOrder(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		loop.Do(func() { order = append(order, i) })
	}

	// Call flushes everything queued before it
	loop.Call(func() {})

	if len(order) != 5 {
		t.Fatalf("ran %d actions, want 5", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("actions out of order: %v", order)
		}
	}
}

func TestLoopCallWaits(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	done := false
	loop.Call(func() {
		time.Sleep(10 * time.Millisecond)
		done = true
	})
	if !done {
		t.Fatal("Call returned before its action finished")
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
}
