// @title        Bookbite Web API
// @version      1.0
// @description  JSON endpoints of the Bookbite reservation web front end.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BRMilev22/Bookbite-sub001/internal/api"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/service"
	"github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/backend"
	"github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/db/memory"
	mongodb "github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/db/mongo"
	redisdb "github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/db/redis"
	"github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/http/handlers"
	"github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/queue"
	"github.com/BRMilev22/Bookbite-sub001/internal/pkg/config"
	"github.com/BRMilev22/Bookbite-sub001/internal/web"
	"github.com/BRMilev22/Bookbite-sub001/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "bookbite-web",
	})
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := backend.NewClient(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, logger.Component("backend"))
	if err != nil {
		return err
	}
	checks := map[string]handlers.Check{"backend": client.Ping}

	var db *mongo.Database
	if cfg.NeedsMongo() {
		mclient, mdb, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mclient.Disconnect(dctx)
		}()
		db = mdb
		checks["mongodb"] = handlers.MongoCheck(db)
	}

	var (
		storage ports.SessionStorage
		guard   ports.SubmitGuard
	)
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		storage = redisdb.NewSessionStorage(rdb)
		guard = redisdb.NewSubmitGuard(rdb, cfg.Wizard.SubmitTimeout)
		checks["redis"] = handlers.RedisCheck(rdb)
	case config.SessionBackendMongo:
		ss := mongodb.NewSessionStorage(db)
		if err := ss.EnsureIndexes(ctx); err != nil {
			return err
		}
		storage = ss
		guard = memory.NewSubmitGuard()
	default:
		log.Warn().Msg("using in-memory session storage; sessions are lost on restart")
		storage = memory.NewStorage()
		guard = memory.NewSubmitGuard()
	}

	var (
		compensator ports.Compensator
		dispatcher  *queue.Dispatcher
	)
	if cfg.Compensation.Enabled {
		var orphans ports.OrphanRepository
		if cfg.Compensation.Ledger == config.OrphanLedgerMongo {
			orphans = mongodb.NewOrphanRepository(db)
		} else {
			log.Warn().Msg("orphan ledger is in-memory; orphaned customers are only reported in the logs")
			orphans = memory.NewOrphanRepository(logger.Component("orphans"))
		}

		dispatcher = queue.NewDispatcher(
			cfg.Compensation.Workers,
			service.NewCompensationService(client, orphans, logger.Component("compensation")),
			logger.Component("dispatcher"),
		)
		// Workers outlive the signal context so jobs enqueued while requests
		// drain still run.
		workerCtx, cancelWorkers := context.WithCancel(context.Background())
		defer cancelWorkers()
		dispatcher.Start(workerCtx)
		compensator = dispatcher
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	sessions := service.NewSessionManager(storage, cfg.Session.TTL, logger.Component("session"))
	wizard := service.NewWizardService(client, storage, guard, compensator, service.WizardOptions{
		RedirectURL:   cfg.Wizard.RedirectURL,
		RedirectAfter: cfg.Wizard.RedirectDelay,
		StateTTL:      cfg.Session.TTL,
	}, logger.Component("wizard"))

	secret := cfg.Session.Secret
	if secret == "" {
		log.Warn().Msg("SESSION_SECRET not set; using an insecure development secret")
		secret = "bookbite-dev-secret"
	}

	e := api.NewRouter(api.Deps{
		Log:      log,
		Renderer: renderer,
		Sessions: sessions,
		SessionOptions: api.SessionOptions{
			Secret:     secret,
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		},
		Tables:          client,
		Restaurants:     client,
		Forwarder:       client,
		Auth:            service.NewAuthService(client, logger.Component("auth")),
		Users:           service.NewUserAdminService(client, logger.Component("users")),
		Wizard:          wizard,
		Reservations:    service.EmptyReservationLister{},
		SubmitTimeout:   cfg.Wizard.SubmitTimeout,
		ReadinessChecks: checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Str("sessions", cfg.Session.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := e.Shutdown(shutdownCtx)

	if dispatcher != nil {
		if err := dispatcher.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("compensation queue not drained before shutdown")
		}
	}
	return shutdownErr
}
