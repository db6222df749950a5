package activity

import (
	"sync"
	"time"
)

const DefaultCapacity = 15

// Severity classifies the outcome recorded by a log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// Log is a bounded, newest-first ring of run outcomes. Entries are inserted
// at the front and the tail is truncated past the capacity. Entries are
// never deduplicated.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		now:      time.Now,
	}
}

func (l *Log) Record(message string, severity Severity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp: l.now(),
		Message:   message,
		Severity:  severity,
	}

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// List returns a newest-first snapshot of the log.
func (l *Log) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
