package progress_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/progress"
)

func TestBus_FanOut(t *testing.T) {
	bus := progress.NewBus(4)
	a, cancelA := bus.Subscribe()
	b, cancelB := bus.Subscribe()
	defer cancelA()
	defer cancelB()

	bus.Publish(progress.Event{File: "x.pdf", Phase: progress.PhaseUpload, Pct: 100})

	for name, ch := range map[string]<-chan progress.Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.File != "x.pdf" || ev.Pct != 100 {
				t.Errorf("%s got %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Errorf("%s received nothing", name)
		}
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := progress.NewBus(1)
	_, cancel := bus.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(progress.Event{Pct: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if bus.Dropped() != 9 {
		t.Errorf("dropped = %d, want 9", bus.Dropped())
	}
}

func TestBus_CancelClosesAndUnregisters(t *testing.T) {
	bus := progress.NewBus(1)
	ch, cancel := bus.Subscribe()
	if bus.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", bus.Subscribers())
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
	if bus.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", bus.Subscribers())
	}
	bus.Publish(progress.Event{})
}

func TestBus_CloseEndsSubscribers(t *testing.T) {
	bus := progress.NewBus(1)
	ch, cancel := bus.Subscribe()
	bus.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close")
	}
	late, _ := bus.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after Close should return a closed channel")
	}
}

func TestBus_ConcurrentPublishAndCancel(t *testing.T) {
	bus := progress.NewBus(8)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		ch, cancel := bus.Subscribe()
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()
		go func() {
			defer wg.Done()
			bus.Publish(progress.Event{Pct: 1})
			cancel()
		}()
	}
	wg.Wait()
}

func TestTracker_ComputesPctSpeedAndETA(t *testing.T) {
	bus := progress.NewBus(8)
	ch, cancel := bus.Subscribe()
	defer cancel()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := start
	tr := progress.NewTrackerWithClock(bus, "big.zip", 4*1024*1024, func() time.Time { return now })

	now = start.Add(time.Second)
	tr.Update(1024 * 1024)

	ev := <-ch
	if ev.Phase != progress.PhaseStorage || ev.Pct != 25 {
		t.Errorf("event = %+v, want gdrive 25%%", ev)
	}
	if ev.Speed != "1.00" {
		t.Errorf("speed = %q, want 1.00", ev.Speed)
	}
	if ev.ETA == nil || *ev.ETA != 3 {
		t.Errorf("eta = %v, want 3", ev.ETA)
	}

	// same percentage is not republished
	tr.Update(1024*1024 + 10)
	select {
	case ev := <-ch:
		t.Errorf("unexpected event %+v", ev)
	default:
	}
}
