package app

import (
	"log/slog"
	"os"

	"github.com/kavelabs/kavela/internal/vault"
	"github.com/kavelabs/kavela/internal/verifier"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verifier.enabled") {
		if err := verifier.New(verifier.Dependency{
			DBConn:     a.dbConn,
			Router:     a.httpRouter,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Totp:       a.totp,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module verifier", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.vault.enabled") {
		if err := vault.New(vault.Dependency{
			Store:      a.store,
			Presence:   a.presence,
			Router:     a.vaultRouter,
			Config:     a.config,
			Instrument: a.ins,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module vault", "error", err)
			os.Exit(1)
		}
	}
}
