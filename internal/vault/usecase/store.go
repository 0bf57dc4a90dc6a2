package usecase

import (
	"context"
	"log/slog"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
)

type StoreInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Store saves or overwrites the password for an email. Writes to the same
// email are serialized; the last writer wins.
func (s *Usecase) Store(ctx context.Context, in StoreInput) error {
	ctx, span := s.startSpan(ctx, "Store")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	unlock := s.lockEmail(in.Email)
	defer unlock()

	if err := s.store.Put(ctx, in.Email, in.Password); err != nil {
		slog.ErrorContext(ctx, "failed to write credential to secure store", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
