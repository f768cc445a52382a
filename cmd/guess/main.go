package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/cinedle/internal/playtest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := playtest.NewCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("guess: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
