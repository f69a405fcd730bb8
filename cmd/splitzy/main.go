package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+describeError(err)))
		os.Exit(1)
	}
}
