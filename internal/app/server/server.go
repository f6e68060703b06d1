package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/audits"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/employees"
	"laportal/internal/domain/idcards"
	"laportal/internal/domain/parcels"
	"laportal/internal/domain/reports"
	"laportal/internal/domain/sellers"
	"laportal/internal/platform/config"
	"laportal/internal/platform/crypto"
	"laportal/internal/platform/db"
	"laportal/internal/platform/jobs"
	"laportal/internal/platform/metrics"
	adminhandler "laportal/internal/transport/http/handlers/admin"
	audithandler "laportal/internal/transport/http/handlers/audits"
	authhandler "laportal/internal/transport/http/handlers/auth"
	employeehandler "laportal/internal/transport/http/handlers/employees"
	idcardhandler "laportal/internal/transport/http/handlers/idcards"
	parcelhandler "laportal/internal/transport/http/handlers/parcels"
	reportshandler "laportal/internal/transport/http/handlers/reports"
	sellerhandler "laportal/internal/transport/http/handlers/sellers"
	"laportal/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service

	cancel context.CancelFunc
}

// New connects to the database, prepares the schema and wires every service
// and route. The job worker runs until Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	if !cipher.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; sensitive profile fields are stored unencrypted")
	}
	calc, err := earnings.NewCalculator(cfg.Rates)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("rate table: %w", err)
	}
	slog.Info("rate table loaded", "rates", calc.Rates().String())

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	jobSvc := jobs.New(jobs.NewPGRunStore(pool))
	jobSvc.Start(workerCtx)

	app := &App{Config: cfg, DB: pool, Jobs: jobSvc, cancel: cancel}
	app.Router = app.routes(calc, cipher, collector)
	return app, nil
}

func (a *App) routes(calc *earnings.Calculator, cipher *crypto.FieldCipher, collector *metrics.Collector) http.Handler {
	cfg := a.Config
	perms := auth.NewStaticPermissions()
	activityLog := activity.New(a.DB)

	authSvc := auth.NewService(auth.NewStore(a.DB), cfg.JWTSecret, cfg.TokenTTL)
	auditStore := audits.NewStore(a.DB)
	sellerSvc := sellers.NewService(sellers.NewStore(a.DB), auditStore, activityLog)
	auditSvc := audits.NewService(auditStore, calc, sellerSvc, activityLog, collector)
	parcelSvc := parcels.NewService(parcels.NewStore(a.DB), activityLog)
	employeeSvc := employees.NewService(employees.NewStore(a.DB, cipher), activityLog)

	brand := reports.Branding{
		CompanyName:    cfg.ReportCompanyName,
		CompanyAddress: cfg.ReportCompanyAddress,
		Currency:       cfg.ReportCurrency,
	}
	reportSvc := reports.NewService(auditSvc, parcelSvc, employeeSvc, brand)
	cardSvc := idcards.NewService(idcards.NewStore(a.DB), employeeSvc, activityLog, brand)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authSvc))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc, employeeSvc, perms, activityLog).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, reportSvc, a.Jobs, brand, perms).RegisterRoutes(r)
		sellerhandler.NewHandler(sellerSvc, a.Jobs, perms).RegisterRoutes(r)
		parcelhandler.NewHandler(parcelSvc, perms).RegisterRoutes(r)
		employeehandler.NewHandler(employeeSvc, perms).RegisterRoutes(r)
		idcardhandler.NewHandler(cardSvc, perms).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, perms).RegisterRoutes(r)
		adminhandler.NewHandler(activityLog, collector, perms).RegisterRoutes(r)
	})

	return router
}

// Close stops the job worker and releases the pool.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Jobs != nil {
		a.Jobs.Wait()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment, "rateVersion", a.Config.Rates.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
