// Package stats counts what happened to each batch item and summarizes the
// run for logging.
package stats

import (
	"sync"
)

type EventType string

const (
	EventTypeScanned   EventType = "scanned"
	EventTypeConverted EventType = "converted"
	EventTypeDuplicate EventType = "duplicate"
	EventTypeFiltered  EventType = "filtered"
	EventTypeArtifact  EventType = "artifact"
	EventTypeError     EventType = "error"
	EventTypePDFFailed EventType = "pdf_failed"
)

type Event struct {
	Type EventType
	// Item is the original filename of the input the event refers to.
	Item string
	// Artifact is the path of a written output document.
	Artifact string
	Err      error
}

type Summary struct {
	Scanned    int
	Converted  int
	Duplicates int
	Filtered   int
	Artifacts  int
	Errors     int
	PDFFailed  bool
	LastError  error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"scanned", s.Scanned,
		"converted", s.Converted,
		"duplicates", s.Duplicates,
		"filtered", s.Filtered,
		"artifacts", s.Artifacts,
		"errors", s.Errors,
	}
	if s.PDFFailed {
		attrs = append(attrs, "pdfFailed", true)
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

// Collector aggregates events. The batch is sequential today, but the
// collector stays safe for concurrent use so independent items can move to a
// worker pool without touching it.
type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Apply(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch evt.Type {
	case EventTypeScanned:
		c.summary.Scanned++
	case EventTypeConverted:
		c.summary.Converted++
	case EventTypeDuplicate:
		c.summary.Duplicates++
	case EventTypeFiltered:
		c.summary.Filtered++
	case EventTypeArtifact:
		c.summary.Artifacts++
	case EventTypeError:
		c.summary.Errors++
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	case EventTypePDFFailed:
		c.summary.PDFFailed = true
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	}
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}
