// Package progress fans upload progress events out to any number of
// in-process subscribers (the SSE endpoint holds one per open stream).
package progress

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Phases of an upload.
const (
	PhaseUpload  = "upload" // browser to server
	PhaseStorage = "gdrive" // server to attachment storage
)

// Event is one progress notification. Speed is MB/s with two decimals and
// ETA is whole seconds; both are only set during the storage phase.
type Event struct {
	File  string `json:"file"`
	Phase string `json:"phase"`
	Pct   int    `json:"pct"`
	Speed string `json:"speed,omitempty"`
	ETA   *int   `json:"eta,omitempty"`
}

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

// Bus is an in-memory publish/subscribe hub. Publish never blocks: a
// subscriber whose queue is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	closed bool

	dropped atomic.Uint64
}

// NewBus creates a Bus whose subscribers each queue up to buffer events.
func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Bus{subs: make(map[uint64]chan Event), buffer: buffer}
}

// Subscribe registers a subscriber. Call the returned cancel func exactly
// when done; it is safe to call more than once. The channel is closed on
// cancel or when the Bus is closed.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers e to every subscriber that has room.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped for full queues.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close closes every subscriber channel and rejects new subscribers.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Tracker turns byte counts for one file into storage-phase events.
// Events are only published when the whole percentage changes.
type Tracker struct {
	bus     *Bus
	file    string
	total   int64
	start   time.Time
	now     func() time.Time
	lastPct int
}

// NewTracker starts timing a transfer of total bytes.
func NewTracker(bus *Bus, file string, total int64) *Tracker {
	return newTracker(bus, file, total, time.Now)
}

func newTracker(bus *Bus, file string, total int64, now func() time.Time) *Tracker {
	return &Tracker{bus: bus, file: file, total: total, start: now(), now: now, lastPct: -1}
}

// Update reports that loaded bytes have been transferred.
func (t *Tracker) Update(loaded int64) {
	if t == nil || t.bus == nil {
		return
	}
	ev := t.event(loaded)
	if ev.Pct == t.lastPct {
		return
	}
	t.lastPct = ev.Pct
	t.bus.Publish(ev)
}

func (t *Tracker) event(loaded int64) Event {
	const mb = 1024 * 1024

	secs := t.now().Sub(t.start).Seconds()
	loadedMB := float64(loaded) / mb
	speed := 0.0
	if secs > 0 {
		speed = loadedMB / secs
	}
	pct := 0
	if t.total > 0 {
		pct = int(math.Round(float64(loaded) / float64(t.total) * 100))
	}
	eta := 0
	if speed > 0 {
		eta = int(math.Round((float64(t.total)/mb - loadedMB) / speed))
		if eta < 0 {
			eta = 0
		}
	}
	return Event{
		File:  t.file,
		Phase: PhaseStorage,
		Pct:   pct,
		Speed: fmt.Sprintf("%.2f", speed),
		ETA:   &eta,
	}
}
