package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kavelabs/kavela/internal/pkg/config"
	"github.com/kavelabs/kavela/internal/pkg/credstore"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/presence"
	"github.com/kavelabs/kavela/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	store     credstore.Store
	presence  presence.Challenger
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation

	// available is decided once at construction and never flips back.
	available bool

	mu    sync.Mutex
	locks map[string]*emailLock
}

// emailLock is a per-email mutex with a waiter count so entries can be
// dropped from the map once nobody holds or wants them.
type emailLock struct {
	mu   sync.Mutex
	refs int
}

type Dependency struct {
	// Store is nil when no secure store could be initialized; the vault then
	// reports unavailable and every operation fails fast.
	Store      credstore.Store
	Presence   presence.Challenger
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		presence:  dep.Presence,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
		available: dep.Store != nil,
		locks:     make(map[string]*emailLock),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("vault.usecase").Start(ctx, name)
}

// lockEmail serializes writes per email so concurrent Store/Delete calls on
// the same account cannot interleave. Different emails do not contend.
func (s *Usecase) lockEmail(email string) func() {
	s.mu.Lock()
	l, ok := s.locks[email]
	if !ok {
		l = &emailLock{}
		s.locks[email] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, email)
		}
		s.mu.Unlock()
	}
}

func (s *Usecase) ensureAvailable(ctx context.Context) error {
	if !s.available {
		slog.WarnContext(ctx, "credential vault is unavailable")
		return goerror.NewUnavailable(goerror.ErrUnavailable, "credential vault is unavailable")
	}
	return nil
}

