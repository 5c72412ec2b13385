package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/randori-export/pkg/logging"
)

func main() {
	// JSON on stdout until the run applies its own logging settings.
	logging.Setup(logging.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := newRootCmd(nil, os.LookupEnv)
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Export failed")
		stop()
		os.Exit(1)
	}
}
