package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gitsleuth-be/internal/config"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/pkg/events"
	pktNats "gitsleuth-be/pkg/nats"
)

// Audit worker: tails every session event published to NATS and writes it to
// the worker log. Useful for watching ingestion runs from a second terminal.
func main() {
	cfg := config.Load()
	auditLogger := logger.NewIsolatedLogger("logs/events.log")
	defer auditLogger.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "gitsleuth-audit", func(ctx context.Context, event events.Event) error {
		auditLogger.Info("audit", event.EventType(), event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Println("Event audit worker running, press Ctrl+C to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
