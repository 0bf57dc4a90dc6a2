package usecase

import (
	"context"
	"log/slog"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
)

type HasInput struct {
	Email string `validate:"required,email"`
}

type HasOutput struct {
	Exists bool
}

// Has reports whether a credential exists for an email. It never triggers the
// presence ceremony: existence is not a secret read.
func (s *Usecase) Has(ctx context.Context, in HasInput) (*HasOutput, error) {
	ctx, span := s.startSpan(ctx, "Has")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.store.Has(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to probe credential in secure store", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &HasOutput{Exists: exists}, nil
}
