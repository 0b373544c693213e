package analyzer

import (
	"context"
	"sync"
	"testing"
)

func TestTracker_AddAndTick(t *testing.T) {
	type call struct {
		current, total int
		path           string
	}
	var calls []call
	var mu sync.Mutex

	tracker := NewTracker(func(current, total int, path string) {
		mu.Lock()
		calls = append(calls, call{current, total, path})
		mu.Unlock()
	})

	tracker.Add(3)
	if tracker.Done() {
		t.Error("Done() before any tick")
	}
	tracker.Tick("a.js")
	tracker.Tick("b.js")
	tracker.Tick("c.js")

	if got := tracker.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}
	if got := tracker.Current(); got != 3 {
		t.Errorf("Current() = %d, want 3", got)
	}
	if !tracker.Done() {
		t.Error("Done() = false after all ticks")
	}

	if len(calls) != 3 {
		t.Fatalf("expected 3 callback calls, got %d", len(calls))
	}
	if calls[0] != (call{1, 3, "a.js"}) {
		t.Errorf("first call = %+v", calls[0])
	}
	if calls[2] != (call{3, 3, "c.js"}) {
		t.Errorf("last call = %+v", calls[2])
	}
}

func TestTracker_NilCallback(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(1)
	tracker.Tick("a.js")
	if tracker.Current() != 1 {
		t.Errorf("Current() = %d, want 1", tracker.Current())
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(100)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("f.js")
		}()
	}
	wg.Wait()

	if tracker.Current() != 100 {
		t.Errorf("Current() = %d, want 100", tracker.Current())
	}
}

func TestTrackerContext(t *testing.T) {
	if TrackerFromContext(context.Background()) != nil {
		t.Error("empty context should carry no tracker")
	}

	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)
	if TrackerFromContext(ctx) != tracker {
		t.Error("TrackerFromContext did not return the stored tracker")
	}
}
