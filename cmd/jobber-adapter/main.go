package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/fieldlink/jobber-adapter/internal/api"
	"github.com/fieldlink/jobber-adapter/internal/auth"
	"github.com/fieldlink/jobber-adapter/internal/jobber"
	"github.com/fieldlink/jobber-adapter/internal/publisher"
	"github.com/fieldlink/jobber-adapter/internal/rate"
	internalsecrets "github.com/fieldlink/jobber-adapter/internal/secrets"
	"github.com/fieldlink/jobber-adapter/internal/store"
	"github.com/fieldlink/jobber-adapter/pkg/config"
	"github.com/fieldlink/jobber-adapter/pkg/logger"
	"github.com/fieldlink/jobber-adapter/pkg/secrets"
	"github.com/fieldlink/jobber-adapter/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	logg := logger.S()
	logg.Info("starting [jobber-adapter]...")
	logg.Info("connection to DSN: ", utils.MaskDSN(cfg.DatabaseURL))

	// --- Jobber OAuth credentials (AWS Secrets Manager with env fallback) ---
	envCreds := auth.Credentials{
		ClientID:          cfg.JobberClientID,
		ClientSecret:      cfg.JobberClientSecret,
		RefreshToken:      cfg.JobberRefreshToken,
		StaticAccessToken: cfg.JobberAccessToken,
	}

	var provider secrets.Provider
	if cfg.CredentialsSecret != "" {
		p, err := secrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}
		provider = p
	}
	credsCache := secrets.NewCache[auth.Credentials](cfg.CacheTTL)
	credsResolver := internalsecrets.NewResolver(
		logg.Desugar(),
		cfg.CredentialsSecret,
		provider,
		credsCache,
		envCreds,
	)
	creds := credsResolver.Resolve(ctx)
	if !creds.CanRefresh() && creds.StaticAccessToken == "" {
		logg.Warn("no Jobber credentials configured; submissions will fail until JOBBER_* is set")
	}

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: 5, // Jobber allows 2500 requests per 5 minutes
		Burst:             10,
		Cooldown:          1 * time.Second,
	})

	// --- Token exchange + resolution ---
	exchanger := auth.NewExchanger(logg.Desugar(), cfg.JobberTokenURL, creds, rateMgr)
	tokenResolver := auth.NewResolver(logg.Desugar(), creds, exchanger)

	// --- Store (Redis + Postgres hybrid) ---
	st, err := store.NewHybrid(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.DatabaseURL, store.PGPoolConfig{
		MaxConns:          int32(cfg.PGMaxConns),
		MinConns:          int32(cfg.PGMinConns),
		MaxConnLifetime:   cfg.PGMaxConnLifetime,
		MaxConnIdleTime:   cfg.PGMaxConnIdleTime,
		HealthCheckPeriod: cfg.PGHealthCheckPeriod,
	}, logg.Desugar())
	if err != nil {
		logg.Fatalw("failed to init store", "error", err)
	}

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Fatalw("failed to connect to NATS", "error", err)
	}

	// --- Publisher ---
	pub, err := publisher.New(nc, cfg.OutboundSubject, cfg.ServiceName)
	if err != nil {
		logg.Fatalw("failed to init publisher", "error", err)
	}

	// --- Jobber GraphQL client + service ---
	jobberClient := jobber.NewClient(
		logg.Desugar(),
		cfg.JobberAPIURL,
		cfg.JobberAPIVersion,
		tokenResolver,
		rateMgr,
	)
	jobberSvc := jobber.NewService(logg.Desugar(), jobberClient, st, pub)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	submissionHandler := api.NewSubmissionHandler(logg.Desugar(), jobberSvc)
	oauthHandler := api.NewOAuthHandler(logg.Desugar(), exchanger, cfg.JobberRedirectURI)

	api.RegisterRoutes(app, nc, st, submissionHandler, oauthHandler)

	// Start HTTP server
	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	// --- Main process stays alive until interrupted ---
	logg.Infow("[jobber-adapter] running",
		"nats", cfg.NATSURL,
		"env", cfg.Env,
		"jobber_api", cfg.JobberAPIURL,
		"api_version", cfg.JobberAPIVersion)

	<-ctx.Done()
	logg.Info("shutting down [jobber-adapter]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if err := nc.Drain(); err != nil {
		logg.Warnw("nats.drain_failed", "error", err)
	}
	if err := st.Close(); err != nil {
		logg.Warnw("store.close_failed", "error", err)
	}
	logger.Sync()
}
