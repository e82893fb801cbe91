package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// InterruptContext returns a context cancelled on SIGINT/SIGTERM. Cancelling
// it tears down the browser through the chromedp context chain. A second
// signal exits immediately.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sig:
		case <-ctx.Done():
			signal.Stop(sig)
			return
		}

		fmt.Fprintln(os.Stderr, "\nInterrupt received. Closing browser...")
		cancel()

		<-sig
		fmt.Fprintln(os.Stderr, "\nExiting due to interrupt.")
		os.Exit(1)
	}()

	return ctx, cancel
}
