package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kavelabs/kavela/internal/pkg/credstore"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
)

type DeleteInput struct {
	Email string `validate:"required,email"`
}

// Delete removes the credential for an email. Deleting an email that was
// never stored succeeds; after Delete returns, Has reports false either way.
func (s *Usecase) Delete(ctx context.Context, in DeleteInput) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	unlock := s.lockEmail(in.Email)
	defer unlock()

	err := s.store.Delete(ctx, in.Email)
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to delete credential from secure store", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
