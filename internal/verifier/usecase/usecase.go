package usecase

import (
	"context"

	"github.com/kavelabs/kavela/internal/pkg/clock"
	"github.com/kavelabs/kavela/internal/pkg/config"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/otp"
	"github.com/kavelabs/kavela/internal/pkg/validator"
	"github.com/kavelabs/kavela/internal/verifier/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetEnrolledSecret(ctx context.Context, userID string) (*entity.EnrolledSecret, error)
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	totp      otp.OTP
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	Totp       otp.OTP
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		totp:      dep.Totp,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verifier.usecase").Start(ctx, name)
}
