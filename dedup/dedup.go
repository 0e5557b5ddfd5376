// Package dedup detects duplicate inputs inside a single run. Nothing is
// persisted across runs; the tracker lives and dies with the batch.
package dedup

import "sync"

// Tracker answers whether an input with a given content hash was already
// processed in this run.
type Tracker interface {
	AlreadyProcessed(hash string) bool
	MarkProcessed(hash, name string)
	Snapshot() Snapshot
}

// Snapshot summarizes tracker state.
type Snapshot struct {
	Processed int
}

type memoryTracker struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewMemoryTracker returns an in-memory Tracker.
func NewMemoryTracker() Tracker {
	return &memoryTracker{seen: make(map[string]string)}
}

func (t *memoryTracker) AlreadyProcessed(hash string) bool {
	if hash == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[hash]
	return ok
}

func (t *memoryTracker) MarkProcessed(hash, name string) {
	if hash == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[hash] = name
}

func (t *memoryTracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{Processed: len(t.seen)}
}
