package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // local time in panes without a system zoneinfo
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
