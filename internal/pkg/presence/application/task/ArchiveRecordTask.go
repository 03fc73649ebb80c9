package task

import (
	"context"
	"encoding/json"
	"time"

	qport "go-beacon/internal/infrastructure/queue/port"
	"go-beacon/internal/pkg/presence/domain"
	repoport "go-beacon/internal/pkg/presence/persistence/repository/port"
)

// ArchiveRecordTaskType is the queue task name for archiving a delivered
// message record to the external sink.
const ArchiveRecordTaskType = "history:archive_record"

// ArchiveRecordTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type ArchiveRecordTaskPayload struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// QueueArchiver satisfies the relay engine's Archiver by enqueueing an
// archive task instead of writing to the sink inline, so a slow sink never
// holds up delivery.
type QueueArchiver struct {
	Q qport.Client
}

func NewQueueArchiver(q qport.Client) *QueueArchiver {
	return &QueueArchiver{Q: q}
}

// Archive enqueues the record for background archiving.
func (a *QueueArchiver) Archive(ctx context.Context, rec domain.Record) error {
	b, err := json.Marshal(ArchiveRecordTaskPayload{
		ID:        rec.ID,
		From:      rec.From,
		To:        rec.To,
		Message:   rec.Message,
		Timestamp: rec.Timestamp,
	})
	if err != nil {
		return err
	}
	opts := qport.EnqueueOption{Queue: "history", MaxRetry: 10}
	_, err = a.Q.Enqueue(ctx, qport.Task{Type: ArchiveRecordTaskType, Payload: b}, opts)
	return err
}

// RegisterArchiveRecordTask binds the archive handler to the worker server.
func RegisterArchiveRecordTask(srv qport.Server, archive repoport.HistoryArchive) {
	srv.Register(ArchiveRecordTaskType, func(ctx context.Context, t qport.Task) error {
		var p ArchiveRecordTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return archive.SaveRecord(ctx, domain.Record{
			ID:        p.ID,
			From:      p.From,
			To:        p.To,
			Message:   p.Message,
			Timestamp: p.Timestamp,
		})
	})
}
