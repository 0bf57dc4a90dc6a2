package usecase

import (
	"context"
	"log/slog"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/samber/lo"
)

type GetEmailsOutput struct {
	Emails []string
}

// GetEmails lists every email with a stored credential. Order is whatever the
// backing store returns and is not guaranteed stable across calls.
func (s *Usecase) GetEmails(ctx context.Context) (*GetEmailsOutput, error) {
	ctx, span := s.startSpan(ctx, "GetEmails")
	defer span.End()

	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}

	emails, err := s.store.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list credentials from secure store", "error", err)
		return nil, goerror.NewServer(err)
	}

	emails = lo.Filter(emails, func(email string, _ int) bool {
		return email != ""
	})

	return &GetEmailsOutput{Emails: emails}, nil
}
