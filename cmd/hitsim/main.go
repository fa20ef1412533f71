package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skillhit/internal/app"
	"skillhit/internal/config"
)

func main() {
	rt, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{Runtime: rt}); err != nil {
		log.Fatalf("%v", err)
	}
}
