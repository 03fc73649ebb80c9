package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	qport "go-beacon/internal/infrastructure/queue/port"
	"go-beacon/internal/pkg/presence/domain"
)

type fakeQueueClient struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (f *fakeQueueClient) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.tasks = append(f.tasks, t)
	f.opts = append(f.opts, opts...)
	return "task-1", nil
}

func (f *fakeQueueClient) Close() error { return nil }

type fakeServer struct {
	handlers map[string]qport.Handler
}

func (f *fakeServer) Register(taskType string, h qport.Handler) {
	if f.handlers == nil {
		f.handlers = make(map[string]qport.Handler)
	}
	f.handlers[taskType] = h
}

func (f *fakeServer) Run(ctx context.Context) error { return nil }

type fakeArchive struct {
	saved []domain.Record
}

func (f *fakeArchive) SaveRecord(ctx context.Context, rec domain.Record) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeArchive) RecordsByParticipant(ctx context.Context, identity string, limit int) ([]domain.Record, error) {
	return nil, nil
}

func TestQueueArchiver_Enqueues_Record(t *testing.T) {
	req := require.New(t)
	client := &fakeQueueClient{}
	archiver := NewQueueArchiver(client)

	rec := domain.Record{ID: "01ABC", From: "alice", To: "bob", Message: "hi", Timestamp: time.Now().UTC()}
	req.NoError(archiver.Archive(context.Background(), rec))

	req.Len(client.tasks, 1)
	req.Equal(ArchiveRecordTaskType, client.tasks[0].Type)
	req.Equal("history", client.opts[0].Queue)

	var p ArchiveRecordTaskPayload
	req.NoError(json.Unmarshal(client.tasks[0].Payload, &p))
	req.Equal("01ABC", p.ID)
	req.Equal("alice", p.From)
	req.Equal("bob", p.To)
	req.Equal("hi", p.Message)
}

func TestArchiveRecordTask_Handler_Saves_Record(t *testing.T) {
	req := require.New(t)
	srv := &fakeServer{}
	archive := &fakeArchive{}
	RegisterArchiveRecordTask(srv, archive)

	h, ok := srv.handlers[ArchiveRecordTaskType]
	req.True(ok)

	// When a queued payload arrives
	payload, err := json.Marshal(ArchiveRecordTaskPayload{
		ID: "01ABC", From: "alice", To: "bob", Message: "hi", Timestamp: time.Now().UTC(),
	})
	req.NoError(err)
	req.NoError(h(context.Background(), qport.Task{Type: ArchiveRecordTaskType, Payload: payload}))

	// Then the record lands in the archive
	req.Len(archive.saved, 1)
	req.Equal("01ABC", archive.saved[0].ID)

	// And a malformed payload surfaces an error
	req.Error(h(context.Background(), qport.Task{Type: ArchiveRecordTaskType, Payload: []byte("not json")}))
	req.Len(archive.saved, 1)
}
