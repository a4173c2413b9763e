package archive

import (
	"log"
	"sync"
	"time"

	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

const recorderQueue = 1024

// Recorder batches comments into the archive on its own goroutine so callers
// on the UI loop never wait for disk.
type Recorder struct {
	archive  *Archive
	batch    int
	interval time.Duration

	mu     sync.Mutex
	closed bool
	in     chan Record
	done   chan struct{}

	dropped int
}

// NewRecorder starts a recorder that flushes every batchSize records or every
// interval, whichever comes first.
func NewRecorder(a *Archive, batchSize int, interval time.Duration) *Recorder {
	if batchSize <= 0 {
		batchSize = 64
	}
	if interval <= 0 {
		interval = time.Second
	}
	r := &Recorder{
		archive:  a,
		batch:    batchSize,
		interval: interval,
		in:       make(chan Record, recorderQueue),
		done:     make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record queues one comment. When the queue is full the comment is dropped
// and counted rather than blocking the caller.
func (r *Recorder) Record(s feed.Session, e feed.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.in <- Record{SessionID: s.ID, Target: s.Target, Event: e}:
	default:
		r.dropped++
		if r.dropped == 1 || r.dropped%100 == 0 {
			log.Printf("archive: queue full, %d comments not archived", r.dropped)
		}
	}
}

// Dropped returns how many comments could not be queued.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close flushes pending records and stops the recorder. It does not close
// the archive.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.in)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	pending := make([]Record, 0, r.batch)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := r.archive.Insert(pending); err != nil {
			log.Printf("archive: %v", err)
		}
		pending = pending[:0]
	}

	for {
		select {
		case rec, ok := <-r.in:
			if !ok {
				flush()
				return
			}
			pending = append(pending, rec)
			if len(pending) >= r.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
