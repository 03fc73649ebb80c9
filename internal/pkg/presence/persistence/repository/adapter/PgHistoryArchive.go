package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-beacon/internal/pkg/presence/domain"
)

// PgHistoryArchive persists message records to Postgres.
type PgHistoryArchive struct {
	pool *pgxpool.Pool
}

func NewPgHistoryArchive(pool *pgxpool.Pool) *PgHistoryArchive {
	return &PgHistoryArchive{pool: pool}
}

// EnsureSchema creates the archive schema and table if they do not exist.
// Idempotent; the worker runs it once at startup.
func (r *PgHistoryArchive) EnsureSchema(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("PgHistoryArchive: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS presence;
		CREATE TABLE IF NOT EXISTS presence.message_record (
			id         text PRIMARY KEY,
			sender     text NOT NULL,
			recipient  text NOT NULL,
			body       text,
			created_at timestamptz NOT NULL
		);
		CREATE INDEX IF NOT EXISTS message_record_sender_idx ON presence.message_record (sender);
		CREATE INDEX IF NOT EXISTS message_record_recipient_idx ON presence.message_record (recipient);
	`)
	return err
}

func (r *PgHistoryArchive) SaveRecord(ctx context.Context, rec domain.Record) error {
	if r == nil || r.pool == nil {
		return errors.New("PgHistoryArchive: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO presence.message_record (id, sender, recipient, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.From, rec.To, rec.Message, rec.Timestamp)
	return err
}

func (r *PgHistoryArchive) RecordsByParticipant(ctx context.Context, identity string, limit int) ([]domain.Record, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgHistoryArchive: nil pool")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender, recipient, body, created_at
		FROM presence.message_record
		WHERE sender = $1 OR recipient = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, identity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.From, &rec.To, &rec.Message, &rec.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}
