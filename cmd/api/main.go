package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/clerk"
	"server/internal/providers/cloudinary"
	"server/internal/providers/stripe"
	"server/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	svixVerifier, err := webhook.NewSvixVerifier(cfg.ClerkWebhookSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid clerk webhook secret")
	}
	stripeVerifier := webhook.NewStripeVerifier(cfg.StripeWebhookSecret)

	app := &handlers.App{
		SQL:          infra.NewSQLRunner(dbpool, logger),
		Users:        repo.NewUserRepository(dbpool),
		Transactions: repo.NewTransactionRepository(dbpool),
		Images:       repo.NewImageRepository(dbpool),

		SvixVerifier:   svixVerifier,
		StripeVerifier: stripeVerifier,

		Logger: logger,
		Config: cfg,
	}

	// Provider clients are optional: with credentials absent the dependent
	// endpoints answer 503 instead of the process refusing to start.
	if cfg.ClerkSecretKey != "" {
		clerkClient, err := clerk.NewClient(clerk.Options{
			SecretKey: cfg.ClerkSecretKey,
			BaseURL:   cfg.ClerkAPIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid clerk client options")
		}
		app.Clerk = clerkClient
	} else {
		logger.Warn().Msg("CLERK_SECRET_KEY not set; metadata write-back disabled")
	}

	if cfg.StripeSecretKey != "" {
		stripeClient, err := stripe.NewClient(stripe.Options{
			SecretKey: cfg.StripeSecretKey,
			BaseURL:   cfg.StripeAPIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid stripe client options")
		}
		app.Checkout = stripeClient
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set; checkout disabled")
	}

	if cfg.CloudinaryConfigured() {
		searchClient, err := cloudinary.NewClient(cloudinary.Options{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid cloudinary client options")
		}
		app.Search = searchClient
	} else {
		logger.Warn().Msg("cloudinary credentials not set; image search disabled")
	}

	var lookup middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable; country detection degraded")
		} else {
			lookup = resolver.CountryCode
		}
	}

	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
