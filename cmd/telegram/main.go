// cmd/telegram/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "modbot/internal/modules/snippets"
	_ "modbot/internal/modules/system"
	_ "modbot/internal/modules/text"

	"modbot/internal/config"
	"modbot/internal/storage"
	"modbot/internal/telegram"
)

func main() {
	log.Println("[INFO] Starting Telegram bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	bot, err := telegram.NewBot(cfg, store)
	if err != nil {
		log.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Telegram bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Telegram bot exited cleanly")
}
