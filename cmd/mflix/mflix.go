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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/mflix/internal/business"
	"github.com/Agurato/mflix/internal/config"
	"github.com/Agurato/mflix/internal/infrastructure"
	"github.com/Agurato/mflix/internal/service/server"
)

func main() {
	godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogLevel > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := infrastructure.NewMongoDB(connectCtx, cfg.DBURI, cfg.Namespace, cfg.PoolSize, cfg.WTimeout)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to the database")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Could not close the database connection")
		}
	}()

	mm := business.NewMovieManager(db, business.NewFiltererWrapper(), cfg.MoviesPerPage)
	cm := business.NewCommentManager(db)
	um := business.NewUserManager(db)

	router := server.NewServer(
		cfg.CookieSecret,
		server.NewMetrics(),
		server.NewUserHandler(um),
		server.NewMovieHandler(mm),
		server.NewCommentHandler(cm, mm))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Could not shut down the server gracefully")
	}
}
