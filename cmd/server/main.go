package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/api"
	"github.com/rverbytskyi/planora/internal/app"
	iauth "github.com/rverbytskyi/planora/internal/auth"
	"github.com/rverbytskyi/planora/internal/database"
	"github.com/rverbytskyi/planora/internal/geo"
	"github.com/rverbytskyi/planora/internal/notifications"
	"github.com/rverbytskyi/planora/internal/notifier"
	"github.com/rverbytskyi/planora/internal/scheduler"
	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/logger"
	"github.com/rverbytskyi/planora/pkg/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("planora-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         cfg.Auth.JWT.Secret,
		Issuer:         cfg.Auth.JWT.Issuer,
		AccessTokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return fmt.Errorf("initialise mailer: %w", err)
	}
	emailNotifier, err := notifier.NewEmailNotifier(mailer)
	if err != nil {
		return fmt.Errorf("initialise email notifier: %w", err)
	}
	if !cfg.Email.SMTP.Enabled {
		log.Info("smtp disabled; trip emails will be skipped")
	}

	hub := notifications.NewHub()

	notificationSvc, err := services.NewTripNotificationService(db, hub)
	if err != nil {
		return fmt.Errorf("initialise notification service: %w", err)
	}

	statusSvc, err := services.NewTripStatusService(db, notificationSvc, emailNotifier)
	if err != nil {
		return fmt.Errorf("initialise trip status service: %w", err)
	}

	tripSvc, err := services.NewTripService(db)
	if err != nil {
		return fmt.Errorf("initialise trip service: %w", err)
	}

	weatherClient, err := geo.NewWeatherClient(cfg.Geo.OpenMeteoURL, nil, cfg.Geo.RequestTimeout)
	if err != nil {
		return fmt.Errorf("initialise weather client: %w", err)
	}
	weatherSvc, err := services.NewWeatherService(db, weatherClient)
	if err != nil {
		return fmt.Errorf("initialise weather service: %w", err)
	}
	geocodingClient, err := geo.NewGeocodingClient(cfg.Geo.OpenMeteoGeocodingURL, nil, cfg.Geo.RequestTimeout)
	if err != nil {
		return fmt.Errorf("initialise geocoding client: %w", err)
	}
	nominatimClient, err := geo.NewNominatimClient(cfg.Geo.NominatimURL, nil, cfg.Geo.NominatimInterval, cfg.Geo.RequestTimeout)
	if err != nil {
		return fmt.Errorf("initialise nominatim client: %w", err)
	}
	mapsClient, err := geo.NewMapsClient(cfg.Geo.OSRMURL, cfg.Geo.OverpassURL, nil, cfg.Geo.RequestTimeout)
	if err != nil {
		return fmt.Errorf("initialise maps client: %w", err)
	}

	reminder := scheduler.NewReminder(db, statusSvc, notificationSvc,
		scheduler.WithSchedule(cfg.Scheduler.ReminderCron),
		scheduler.WithNotifier(emailNotifier),
	)
	if cfg.Scheduler.Enabled {
		if err := reminder.Start(); err != nil {
			return fmt.Errorf("start reminder scheduler: %w", err)
		}
		defer func() {
			<-reminder.Stop().Done()
		}()
	}

	router, err := api.NewRouter(api.Deps{
		DB:        db,
		Config:    cfg,
		JWT:       jwtService,
		Hub:       hub,
		Trips:     tripSvc,
		Status:    statusSvc,
		Weather:   weatherSvc,
		Geocoding: geocodingClient,
		Nominatim: nominatimClient,
		Maps:      mapsClient,
		Reminder:  reminder,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseSettings()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
