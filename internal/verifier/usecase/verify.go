package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
)

type VerifyInput struct {
	UserID string `validate:"required"`
	Code   string `validate:"required"`
}

type VerifyOutput struct {
	OK bool
}

// Verify checks a submitted TOTP code against the user's enrolled secret.
// It is read-only: a verification changes nothing, so callers can retry and
// external rate limiting can sit in front without coordination.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.UserID = strings.TrimSpace(in.UserID)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	es, err := s.repoDB.GetEnrolledSecret(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user has no enrolled totp secret", "user_id", in.UserID)
		return nil, goerror.NewBusiness("user is not enrolled", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get enrolled secret", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if es.Secret == "" {
		slog.WarnContext(ctx, "enrolled totp secret is empty", "user_id", in.UserID)
		return nil, goerror.NewBusiness("user is not enrolled", goerror.CodeNotFound)
	}

	if !s.totp.Validate(in.Code, es.Secret, s.clock.Now()) {
		slog.WarnContext(ctx, "totp code rejected", "user_id", in.UserID)
		return &VerifyOutput{OK: false}, nil
	}

	return &VerifyOutput{OK: true}, nil
}
