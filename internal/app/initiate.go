package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	libOTP "github.com/pquerna/otp"
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
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          true,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	digits := libOTP.DigitsSix
	if a.config.GetUint("totp.digits") == 8 {
		digits = libOTP.DigitsEight
	}

	a.totp = otp.NewTOTP(
		a.config.GetUint("totp.period"),
		a.config.GetUint("totp.skew"),
		digits,
		a.config.GetString("totp.algorithm"),
	)
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	// The database may come up after us; retry the ping with backoff before
	// giving up.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(a.ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := pool.Ping(pingCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

// initCredstore probes the OS secure store exactly once. Failure is not fatal:
// the vault runs in the unavailable state and every operation fails fast.
func (a *App) initCredstore() {
	driver := a.config.GetString("vault.credstore.driver")

	store, err := credstore.NewFromDriver(driver, credstore.FactoryOptions{
		Keyring: credstore.KeyringOptions{
			Service: a.config.GetString("vault.credstore.keyring.service"),
		},
		File: credstore.FileOptions{
			Path: a.config.GetString("vault.credstore.file.path"),
			Key:  a.config.GetBinary("vault.credstore.file.key"),
		},
	})
	if err != nil {
		slog.Warn("secure credential store is unavailable", "driver", driver, "error", err)
		a.store = nil

		return
	}

	a.store = store
}

func (a *App) initPresence() {
	challenger, err := presence.NewFromDriver(a.config.GetString("vault.presence.driver"), presence.FactoryOptions{
		Command: presence.CommandOptions{
			Path:    a.config.GetString("vault.presence.command.path"),
			Timeout: a.config.GetSecond("vault.presence.timeout"),
		},
		Static: presence.StaticOptions{
			Allow: a.config.GetBool("vault.presence.static.allow"),
		},
	})
	if err != nil {
		slog.Error("failed to init presence challenger", "error", err)
		os.Exit(1)
	}

	a.presence = challenger
}

func (a *App) initServers() {
	a.httpRouter = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Name:       "http",
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.httpRouter)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}

	// The vault listens on a unix domain socket only. No CORS: browsers never
	// reach this surface.
	a.vaultRouter = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Name:       "vault",
	})

	a.vaultSocket = a.config.GetString("app.server.vault.socket")
	a.vaultServer = &http.Server{
		Handler:           a.vaultRouter,
		ReadTimeout:       a.config.GetSecond("app.server.vault.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.vault.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.vault.write_timeout_seconds"),
		IdleTimeout:       a.config.GetMinute("app.server.vault.idle_timeout_minutes"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Credstore",
			fn: func(context.Context) error {
				if a.store != nil {
					return a.store.Close()
				}

				return nil
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
