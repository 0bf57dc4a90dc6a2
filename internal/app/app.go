package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavelabs/kavela/internal/pkg/clock"
	"github.com/kavelabs/kavela/internal/pkg/config"
	"github.com/kavelabs/kavela/internal/pkg/credstore"
	"github.com/kavelabs/kavela/internal/pkg/goroutine"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/otp"
	"github.com/kavelabs/kavela/internal/pkg/presence"
	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/pkg/uid"
	"github.com/kavelabs/kavela/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	totp      otp.OTP
	goroutine *goroutine.Manager

	// resources
	dbConn   *pgxpool.Pool
	store    credstore.Store
	presence presence.Challenger

	// servers
	httpRouter  *router.Router
	vaultRouter *router.Router
	httpServer  *http.Server
	vaultServer *http.Server
	vaultSocket string

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCredstore()
	app.initPresence()
	app.initServers()
	app.initModules()
	app.initClosers()

	return app
}
