package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
// The first signal is logged; a second one falls through to the default
// handler and kills the process.
func SetupSignalHandler(logger zerolog.Logger) context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		stop()
		logger.Info().Msg("Received signal, shutting down gracefully")
	}()

	return ctx
}
