package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"damage-estimator/config"
	telegram "damage-estimator/internal/api"
	"damage-estimator/internal/api/rest"
	"damage-estimator/internal/container"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogLevel(cfg.LogLevel)

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Собираем сервисы приложения
	appContainer, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build container")
	}
	defer appContainer.Close()

	if err := appContainer.Detector.CheckHealth(ctx); err != nil {
		log.Warn().Err(err).Str("url", cfg.Detector.URL).Msg("inference service is unavailable")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runHTTP(ctx, cfg.HTTPAddr, appContainer)
	})

	if appContainer.Refresher != nil {
		g.Go(func() error {
			return appContainer.Refresher.Run(ctx)
		})
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.EstimateService, appContainer.Catalog)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bot")
		}
		g.Go(func() error {
			return bot.Run(ctx)
		})
	} else {
		log.Info().Msg("TELEGRAM_TOKEN is not set, bot disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}

func runHTTP(ctx context.Context, addr string, c *container.Container) error {
	gin.SetMode(gin.ReleaseMode)

	var refresher rest.RefreshStatus
	if c.Refresher != nil {
		refresher = c.Refresher
	}
	handler := rest.NewHandler(c.EstimateService, c.Catalog, refresher)

	srv := &http.Server{
		Addr:              addr,
		Handler:           rest.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("stopping http server")
	return srv.Shutdown(shutdownCtx)
}

func setupLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
