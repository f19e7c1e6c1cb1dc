package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reveil/pkg/config"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	app := newApp(cfg, logger)
	if err := app.initialize(); err != nil {
		logger.Fatal().Err(err).Msg("initialization failed")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	app.shutdown()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return log.With().Str("service", "reveil").Logger().Level(lvl)
}
