// Package journal retains per-consultation progress events in memory so
// callers can poll the state of a consultation after submitting it.
package journal

import (
	"sync"

	"github.com/dusk-indust/consilium/internal/orchestrator"
)

// DefaultCapacity bounds how many consultations the journal retains
// before evicting the oldest.
const DefaultCapacity = 128

// Journal is a concurrency-safe in-memory record of progress events.
// Events are grouped by consultation ID with a separate slice maintaining
// insertion order; when the capacity is reached the oldest consultation
// is dropped as a whole.
type Journal struct {
	mu       sync.RWMutex
	capacity int
	events   map[string][]orchestrator.ProgressEvent
	orderIDs []string // insertion-order consultation IDs
}

// New returns an initialized Journal retaining up to capacity
// consultations. A capacity of zero or less uses DefaultCapacity.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		capacity: capacity,
		events:   make(map[string][]orchestrator.ProgressEvent),
		orderIDs: make([]string, 0),
	}
}

// Record appends ev to its consultation's event list, admitting the
// consultation first if it is new. Events without a consultation ID are
// dropped. Record is safe to use as a progress callback from concurrent
// dispatch goroutines.
func (j *Journal) Record(ev orchestrator.ProgressEvent) {
	if ev.ConsultationID == "" {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.events[ev.ConsultationID]; !exists {
		if len(j.orderIDs) >= j.capacity {
			oldest := j.orderIDs[0]
			j.orderIDs = j.orderIDs[1:]
			delete(j.events, oldest)
		}
		j.orderIDs = append(j.orderIDs, ev.ConsultationID)
	}
	j.events[ev.ConsultationID] = append(j.events[ev.ConsultationID], ev)
}

// Events returns a copy of the events recorded for the given
// consultation in arrival order. The second return is false when the
// consultation is unknown or has been evicted. The returned slice is
// safe to mutate without affecting the journal.
func (j *Journal) Events(id string) ([]orchestrator.ProgressEvent, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	evs, ok := j.events[id]
	if !ok {
		return nil, false
	}
	out := make([]orchestrator.ProgressEvent, len(evs))
	copy(out, evs)
	return out, true
}

// Len reports how many consultations the journal currently retains.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.orderIDs)
}
