package repository

import (
	"context"

	"go-beacon/internal/pkg/presence/domain"
)

// HistoryArchive is the external sink for delivered message records. The
// in-memory history log stays authoritative for the process lifetime; the
// archive only receives copies for retention beyond it.
type HistoryArchive interface {
	SaveRecord(ctx context.Context, rec domain.Record) error
	RecordsByParticipant(ctx context.Context, identity string, limit int) ([]domain.Record, error)
}
