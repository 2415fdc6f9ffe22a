package tournament

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize    = 1024                   // circular buffer size
	MaxEventsPerSec    = 200                    // generous bound; a real game emits a handful per minute
	BatchFlushSize     = 64                     // events per batch write
	BatchFlushInterval = 100 * time.Millisecond // how often to flush
)

// EventLog is the append-only stats stream for one refbox process: every
// goal and penalty issued by the Manager lands here before being exported
// as JSON. It uses a circular buffer and a rate-limited async writer,
// simplified from a per-player DoS-protection scheme (no attacker-facing
// ingestion point exists here) to a single global limiter guarding against
// a runaway caller.
type EventLog struct {
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

// NewEventLog creates a new bounded event log.
func NewEventLog() *EventLog {
	return &EventLog{
		limiter:  rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan: make(chan struct{}),
	}
}

// Start begins the async writer goroutine, appending newline-delimited JSON
// to filePath. An empty filePath runs the log in memory only (used by
// tests).
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(1)
	go el.writerLoop()

	return nil
}

// Stop gracefully shuts down the event log, flushing any pending events.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event to the log. Returns false if the log is not running or
// the event is rate-limited. When the buffer is full the oldest pending
// event is dropped to keep the log live, and the new event is still
// accepted.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.limiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)

	if head-tail > EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	idx := (head - 1) % EventBufferSize
	el.buffer[idx] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
			return

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		idx := i % EventBufferSize
		batch = append(batch, el.buffer[idx])
	}

	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}

	return batch
}

func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// Snapshot returns every event currently buffered (flushed or not), in
// emission order, for use by the GET /games/{number}/stats HTTP endpoint.
// Events already written to disk and evicted from the ring are not
// included — callers that need full game history should read the JSONL
// file directly.
func (el *EventLog) Snapshot(gameNumber uint32) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	var start uint64
	if head > EventBufferSize {
		start = head - EventBufferSize
	}

	out := make([]Event, 0, head-start)
	for i := start; i < head; i++ {
		idx := i % EventBufferSize
		e := el.buffer[idx]
		if e.GameNumber == gameNumber {
			out = append(out, e)
		}
	}
	return out
}

// GetDroppedCount returns the number of events dropped to rate limiting or
// buffer backpressure.
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of events accepted.
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
