package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/ChiefWoods/fundraiser-go/api"
	"github.com/ChiefWoods/fundraiser-go/fundclient"
	"github.com/ChiefWoods/fundraiser-go/program"
)

// Config is populated from environment variables.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	RPCURL    string `env:"RPC_URL" envDefault:"https://api.devnet.solana.com"`
	ProgramID string `env:"PROGRAM_ID"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.ProgramID == "" {
		cfg.ProgramID = program.FundraiserProgramID
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	client, err := fundclient.NewClient(cfg.RPCURL, cfg.ProgramID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.HealthCheck(ctx); err != nil {
		logger.Fatal().Err(err).Msg("rpc health check failed")
	}
	cancel()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(client, logger).Router(),
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("rpc", cfg.RPCURL).
			Str("program", cfg.ProgramID).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("server stopped")
}
