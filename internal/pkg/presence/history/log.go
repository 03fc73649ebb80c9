package history

import (
	"sync"

	"go-beacon/internal/pkg/presence/domain"
)

// Log is an append-only, in-memory sequence of message records. Records keep
// insertion order; there is no deduplication and no compaction. Safe for
// concurrent use.
type Log struct {
	mu      sync.RWMutex
	records []domain.Record

	// maxRecords bounds growth when > 0: the oldest records are dropped once
	// the cap is exceeded. Zero means unbounded.
	maxRecords int
}

// Option configures a Log.
type Option func(*Log)

// WithMaxRecords caps the log at n records, dropping the oldest on overflow.
func WithMaxRecords(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxRecords = n
		}
	}
}

// New constructs an empty Log.
func New(opts ...Option) *Log {
	l := &Log{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Append adds a record to the end of the log. It always succeeds.
func (l *Log) Append(rec domain.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	if l.maxRecords > 0 && len(l.records) > l.maxRecords {
		overflow := len(l.records) - l.maxRecords
		l.records = append(l.records[:0:0], l.records[overflow:]...)
	}
}

// ByParticipant returns every record where identity appears as sender or
// recipient, in original append order. The result is a copy.
func (l *Log) ByParticipant(identity string) []domain.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matches := make([]domain.Record, 0)
	for _, rec := range l.records {
		if rec.Involves(identity) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Len returns the number of records currently retained.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
