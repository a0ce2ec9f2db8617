package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/cafe_pos/internal/appstate"
	"github.com/Skotchmaster/cafe_pos/internal/csvimport"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/httpserver"
	"github.com/Skotchmaster/cafe_pos/internal/receipt"
	"github.com/Skotchmaster/cafe_pos/internal/reports"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	"github.com/Skotchmaster/cafe_pos/internal/service"
	"github.com/Skotchmaster/cafe_pos/pkg/config"
	pkgdb "github.com/Skotchmaster/cafe_pos/pkg/db"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
	authmw "github.com/Skotchmaster/cafe_pos/pkg/middleware/auth"
	"github.com/Skotchmaster/cafe_pos/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/cafe_pos/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	baseCtx := logging.IntoContext(context.Background(), logger)

	ctx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	r := &repo.GormRepo{DB: db}
	if err := r.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	if cfg.SeedDemo {
		if err := service.SeedIfEmpty(ctx, r); err != nil {
			cancel()
			log.Fatalf("seed: %v", err)
		}
	}
	cancel()

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("events_close_error", "error", err)
		}
	}()

	secret := []byte(cfg.SessionSecret)
	authSvc, err := service.NewAuthService(secret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	loc := cfg.Location()
	state := appstate.New(r)
	printer := service.Printer{
		Shop: receipt.Shop{
			Name:     cfg.ShopName,
			Address:  cfg.ShopAddress,
			Currency: cfg.Currency,
			Footer:   cfg.ReceiptFooter,
			Loc:      loc,
		},
		Warning: cfg.ReceiptWarning,
	}
	clock := reports.Clock{
		Loc:             loc,
		CutoffHour:      cfg.BusinessDayCutoffHour,
		DayOnlyPrevious: cfg.DayOnlyPolicy == config.DayOnlyPrevious,
	}

	deps := &httpserver.Deps{
		Repo: r,
		Auth: &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo:       r,
			Events:     publisher,
			Classifier: csvimport.DefaultClassifier(),
		}},
		Layout: &httpserver.LayoutHTTP{Svc: &service.LayoutService{Repo: r}},
		Orders: &httpserver.OrderHTTP{
			Svc:     &service.OrderService{Repo: r, Events: publisher},
			Printer: printer,
		},
		Receipts: &httpserver.ReceiptHTTP{
			Svc:     &service.ReceiptService{Repo: r, Events: publisher, Loc: loc},
			Printer: printer,
		},
		Reports: &httpserver.ReportHTTP{
			Svc: &service.ReportService{
				Repo:     r,
				State:    state,
				Clock:    clock,
				Events:   publisher,
				Currency: cfg.Currency,
			},
			Printer: printer,
		},
		Settings: &httpserver.SettingsHTTP{Svc: &service.SettingsService{State: state}},
		Session:  authmw.NewSessionMiddleware(secret, cfg.CookieSecure),
		CSRF: csrf.Config{
			Secure:            cfg.CookieSecure,
			EnforceSameOrigin: true,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, "/health"))
	e.Use(echomw.CORS())
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("pos_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "events", len(cfg.KafkaBrokers) > 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("pos_stopped")
}
