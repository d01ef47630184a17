package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cyberdeco/bg3kit/internal/convert"
)

// signalAwareContext returns a context cancelled on SIGINT, and also sets
// flag so in-flight batch/orchestrator work observes cooperative
// cancellation through the same path a caller-driven cancel would. The
// returned stop func releases the signal handler and must always be
// called.
func signalAwareContext(ctx context.Context, flag *convert.CancelFlag) (context.Context, func()) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	go func() {
		<-ctx.Done()
		flag.Cancel()
	}()
	return ctx, stop
}
