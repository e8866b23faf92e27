package types

import (
	"sync"
	"testing"
)

func TestControlledQueueFIFO(t *testing.T) {
	cq := NewControlledQueue[int]()
	for i := 0; i < 5; i++ {
		if !cq.Send(i) {
			t.Fatalf("Send(%d) = false on open queue", i)
		}
	}
	if got := cq.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	for want := 0; want < 5; want++ {
		got, ok := cq.Recv()
		if !ok || got != want {
			t.Fatalf("Recv() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
}

func TestControlledQueueAttemptRecvEmpty(t *testing.T) {
	cq := NewControlledQueue[string]()
	canRecv, v, ok := cq.AttemptRecv(false)
	if canRecv || v != "" || !ok {
		t.Errorf("AttemptRecv(false) on empty = (%v, %q, %v), want (false, \"\", true)", canRecv, v, ok)
	}
}

func TestControlledQueueCloseDrains(t *testing.T) {
	cq := NewControlledQueue[int]()
	cq.Send(1)
	cq.Send(2)
	cq.Close()

	if cq.Send(3) {
		t.Error("Send after Close = true, want false")
	}
	for want := 1; want <= 2; want++ {
		got, ok := cq.Recv()
		if !ok || got != want {
			t.Fatalf("Recv() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := cq.Recv(); ok {
		t.Error("Recv on closed and drained queue reported ok")
	}
}

func TestControlledQueueBlockingReceivers(t *testing.T) {
	cq := NewControlledQueue[int]()
	const n = 100

	var mu sync.Mutex
	seen := map[int]bool{}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := cq.Recv()
				if !ok {
					return
				}
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		cq.Send(i)
	}
	cq.Close()
	wg.Wait()

	if len(seen) != n {
		t.Errorf("received %d distinct values, want %d", len(seen), n)
	}
}
