package fx

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback
type FrameID uint64

// Scheduler delivers one-shot frame callbacks, like a display's animation clock
type Scheduler interface {
	// RequestFrame schedules cb for the next frame
	RequestFrame(cb func(now time.Time)) FrameID
	// CancelFrame cancels a pending callback. Unknown or already-run IDs are ignored.
	CancelFrame(id FrameID)
}

type frameEntry struct {
	id FrameID
	cb func(now time.Time)
}

// FrameQueue is a cooperative scheduler flushed by its owner once per frame
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	entries []frameEntry
	live    map[FrameID]struct{}
}

// NewFrameQueue creates an empty queue
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{live: make(map[FrameID]struct{})}
}

func (q *FrameQueue) RequestFrame(cb func(now time.Time)) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	id := q.next
	q.entries = append(q.entries, frameEntry{id: id, cb: cb})
	q.live[id] = struct{}{}
	return id
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	delete(q.live, id)
	q.mu.Unlock()
}

// Pending returns the number of callbacks waiting for the next flush
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.live)
}

// Flush runs the callbacks requested before this call, in request order, and
// returns how many ran. Callbacks requested during the flush wait for the next one.
func (q *FrameQueue) Flush(now time.Time) int {
	q.mu.Lock()
	batch := q.entries
	q.entries = nil
	q.mu.Unlock()

	ran := 0
	for _, entry := range batch {
		// An earlier callback in this batch may have cancelled this one
		q.mu.Lock()
		_, ok := q.live[entry.id]
		delete(q.live, entry.id)
		q.mu.Unlock()
		if !ok {
			continue
		}
		entry.cb(now)
		ran++
	}
	return ran
}

// TickerScheduler flushes a frame queue from a ticker, serializing every
// callback on the goroutine that calls Run
type TickerScheduler struct {
	interval time.Duration
	queue    *FrameQueue
}

// NewTickerScheduler creates a scheduler ticking at interval
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{interval: interval, queue: NewFrameQueue()}
}

func (t *TickerScheduler) RequestFrame(cb func(now time.Time)) FrameID {
	return t.queue.RequestFrame(cb)
}

func (t *TickerScheduler) CancelFrame(id FrameID) {
	t.queue.CancelFrame(id)
}

// Run ticks until ctx is cancelled
func (t *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t.queue.Flush(now)
		}
	}
}
