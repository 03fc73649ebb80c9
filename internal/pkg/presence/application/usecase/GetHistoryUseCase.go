package usecase

import (
	"context"
	"strings"

	"go-beacon/internal/pkg/presence/domain"
)

// GetHistoryInput carries parameters to fetch a participant's history.
type GetHistoryInput struct {
	Identity string
}

// HistoryReader is the history surface this use case needs.
type HistoryReader interface {
	ByParticipant(identity string) []domain.Record
}

// GetHistoryUseCase returns every record involving the identity as sender or
// recipient, in original append order.
type GetHistoryUseCase struct {
	Log HistoryReader
}

func NewGetHistoryUseCase(log HistoryReader) *GetHistoryUseCase {
	return &GetHistoryUseCase{Log: log}
}

// Execute fetches the records for the identity.
func (uc *GetHistoryUseCase) Execute(_ context.Context, in GetHistoryInput) ([]domain.Record, error) {
	if strings.TrimSpace(in.Identity) == "" {
		return nil, domain.ErrEmptyIdentity
	}
	return uc.Log.ByParticipant(in.Identity), nil
}
