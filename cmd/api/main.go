package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mapposter/internal/geo"
	"mapposter/internal/http/handlers"
	httpapi "mapposter/internal/http/httpapi"
	"mapposter/internal/infra"
	"mapposter/internal/providers/staticmap"
	"mapposter/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	geocoder := geo.NewNominatim(geo.NominatimOptions{
		BaseURL:    cfg.GeocoderBaseURL,
		UserAgent:  cfg.GeocoderUserAgent,
		Spacing:    cfg.GeocoderSpacing,
		HTTPClient: &http.Client{Timeout: cfg.OutboundTimeout},
	})
	resolver := geo.NewResolver(geocoder, cfg.DefaultZoom)

	maps, err := staticmap.FromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build map provider")
	}

	store, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build storage backend")
	}
	if store == nil {
		logger.Info().Msg("no storage backend configured, streaming posters inline")
	}

	app := handlers.NewApp(cfg, logger, resolver, maps, store)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("provider", cfg.MapProvider).
			Str("storage", cfg.StorageBackend).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
