package usecase

import (
	"context"

	"go-beacon/internal/pkg/presence/domain"
)

// BootstrapInput carries the caller-supplied identity token.
type BootstrapInput struct {
	Identity string
}

// Bootstrapper is the registry surface this use case needs.
type Bootstrapper interface {
	Bootstrap(identity string) (domain.Entry, error)
}

// BootstrapUseCase ensures an identity is known to the registry and returns
// its presence entry. Idempotent: repeating the call never changes state.
// One use case per file.
type BootstrapUseCase struct {
	Registry Bootstrapper
}

func NewBootstrapUseCase(reg Bootstrapper) *BootstrapUseCase {
	return &BootstrapUseCase{Registry: reg}
}

// Execute creates the entry if absent and returns its current state.
func (uc *BootstrapUseCase) Execute(_ context.Context, in BootstrapInput) (domain.Entry, error) {
	return uc.Registry.Bootstrap(in.Identity)
}
