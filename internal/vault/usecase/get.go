package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kavelabs/kavela/internal/pkg/credstore"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/vault/entity"
)

type GetInput struct {
	Email string `validate:"required,email"`
}

type GetOutput struct {
	Credential entity.Credential
}

// Get returns the stored password for an email.
//
// When presence policy requires it, the user-presence ceremony runs first; a
// declined, failed, or timed-out ceremony denies the read. A missing email is
// NotFound, which is an answer, not a fault.
func (s *Usecase) Get(ctx context.Context, in GetInput) (*GetOutput, error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if s.cfg.GetBool("vault.presence.require_on_get") {
		if !s.presence.Confirm(ctx, in.Email) {
			slog.WarnContext(ctx, "presence ceremony denied credential read", "email", in.Email)
			return nil, goerror.NewBusiness("presence not confirmed", goerror.CodeUnauthorized)
		}
	}

	password, err := s.store.Get(ctx, in.Email)
	if errors.Is(err, credstore.ErrNotFound) {
		return nil, goerror.NewBusiness("credential not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read credential from secure store", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GetOutput{Credential: entity.Credential{Email: in.Email, Password: password}}, nil
}
