package usecase

import (
	"context"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
)

type PromptHelloInput struct {
	Email string `validate:"required,email"`
}

type PromptHelloOutput struct {
	Confirmed bool
}

// PromptHello runs the user-presence ceremony scoped to an account. It
// returns false when the ceremony is dismissed, times out, or the platform
// has no mechanism; it never guesses a grant. Cancelling the context abandons
// the prompt without touching stored state.
func (s *Usecase) PromptHello(ctx context.Context, in PromptHelloInput) (*PromptHelloOutput, error) {
	ctx, span := s.startSpan(ctx, "PromptHello")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	timeout := s.cfg.GetSecond("vault.presence.timeout")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return &PromptHelloOutput{Confirmed: s.presence.Confirm(ctx, in.Email)}, nil
}
