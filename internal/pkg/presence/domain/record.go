package domain

import (
	"strings"
	"time"
)

// Record is one immutable entry in the history log.
type Record struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Involves reports whether identity appears as sender or recipient.
func (r Record) Involves(identity string) bool {
	return r.From == identity || r.To == identity
}

// NewRecord validates and builds a Record. The caller provides the ID and
// timestamp so that stamping stays in one place (the relay engine).
func NewRecord(id, from, to, message string, ts time.Time) (Record, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return Record{}, ErrEmptyIdentity
	}
	return Record{ID: id, From: from, To: to, Message: message, Timestamp: ts}, nil
}
