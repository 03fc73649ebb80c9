package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"go-beacon/internal/infrastructure/metrics"
	"go-beacon/internal/pkg/presence/domain"
)

// DropReason explains why a message never reached its recipient.
type DropReason string

const (
	// DropRecipientOffline means the recipient is unknown or has no live session.
	DropRecipientOffline DropReason = "recipient-offline"
	// DropRecipientUnreachable means the recipient's session rejected the
	// enqueue (closed or backed up).
	DropRecipientUnreachable DropReason = "recipient-unreachable"
	// DropInvalidMessage means the message failed validation.
	DropInvalidMessage DropReason = "invalid-message"
)

// Outcome is the result of a single delivery attempt.
type Outcome struct {
	Delivered bool
	Reason    DropReason
	Record    *domain.Record // set only when delivered
}

// Resolver is the registry surface the engine reads from.
type Resolver interface {
	Resolve(identity string) (domain.Handle, bool)
	Snapshot() []domain.Entry
}

// Appender is the history surface the engine writes to.
type Appender interface {
	Append(rec domain.Record)
	Len() int
}

// Archiver forwards a delivered record to an external sink. Implementations
// must not block delivery; enqueue-and-return semantics are expected.
type Archiver interface {
	Archive(ctx context.Context, rec domain.Record) error
}

// Engine routes point-to-point messages from a sender identity to the
// recipient's current live session and records delivered messages in the
// history log. Delivery is at-most-once and best-effort: there is no retry,
// no queueing and no acknowledgement.
type Engine struct {
	registry Resolver
	log      Appender
	archiver Archiver // optional
	logger   zerolog.Logger
}

// NewEngine constructs an Engine. archiver may be nil.
func NewEngine(registry Resolver, log Appender, archiver Archiver, logger zerolog.Logger) *Engine {
	return &Engine{
		registry: registry,
		log:      log,
		archiver: archiver,
		logger:   logger.With().Str("component", "relay").Logger(),
	}
}

// messageFrame is the wire shape pushed to a recipient session.
type messageFrame struct {
	Type      string    `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Deliver resolves recipient and hands the message to its live session.
// A recipient that is unknown, offline, or unreachable yields a Dropped
// outcome; only delivered messages are appended to the history log. That
// asymmetry is deliberate: senders get no record of messages that never
// reached anyone.
func (e *Engine) Deliver(ctx context.Context, sender, recipient, message string) Outcome {
	ts := time.Now().UTC()
	rec, err := domain.NewRecord(ulid.Make().String(), sender, recipient, message, ts)
	if err != nil {
		metrics.MessagesDropped.WithLabelValues(string(DropInvalidMessage)).Inc()
		return Outcome{Reason: DropInvalidMessage}
	}

	handle, ok := e.registry.Resolve(recipient)
	if !ok {
		metrics.MessagesDropped.WithLabelValues(string(DropRecipientOffline)).Inc()
		e.logger.Debug().
			Str("from", sender).
			Str("to", recipient).
			Msg("recipient offline, message dropped")
		return Outcome{Reason: DropRecipientOffline}
	}

	payload, err := json.Marshal(messageFrame{
		Type:      "private_message",
		From:      rec.From,
		To:        rec.To,
		Message:   rec.Message,
		Timestamp: rec.Timestamp,
	})
	if err != nil {
		metrics.MessagesDropped.WithLabelValues(string(DropInvalidMessage)).Inc()
		return Outcome{Reason: DropInvalidMessage}
	}

	if err := handle.Send(payload); err != nil {
		metrics.MessagesDropped.WithLabelValues(string(DropRecipientUnreachable)).Inc()
		e.logger.Warn().
			Str("from", sender).
			Str("to", recipient).
			Err(err).
			Msg("recipient session unreachable, message dropped")
		return Outcome{Reason: DropRecipientUnreachable}
	}

	e.log.Append(rec)
	metrics.MessagesDelivered.Inc()
	metrics.HistoryRecords.Set(float64(e.log.Len()))

	if e.archiver != nil {
		if err := e.archiver.Archive(ctx, rec); err != nil {
			// Archiving is a side channel; delivery already happened.
			e.logger.Warn().Err(err).Str("record_id", rec.ID).Msg("archive enqueue failed")
		}
	}

	e.logger.Info().
		Str("from", sender).
		Str("to", recipient).
		Str("record_id", rec.ID).
		Msg("message delivered")
	return Outcome{Delivered: true, Record: &rec}
}
