package vault

import (
	"github.com/kavelabs/kavela/internal/pkg/config"
	"github.com/kavelabs/kavela/internal/pkg/credstore"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/presence"
	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/pkg/validator"
	"github.com/kavelabs/kavela/internal/vault/inbound"
	"github.com/kavelabs/kavela/internal/vault/usecase"
)

type Dependency struct {
	// Store is nil when the secure store failed its startup probe; the vault
	// then serves every operation as unavailable.
	Store      credstore.Store
	Presence   presence.Challenger        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Store:      dep.Store,
		Presence:   dep.Presence,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
