// syncagent keeps a local mdmData.json cache in step with the server. It
// pulls once at startup, pushes the cache whenever the file-backed store is
// written through it, and re-pushes on a fixed interval. An expired token
// stops the agent with a re-login hint.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/bridge"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "API base URL")
	cachePath := flag.String("cache", "mdmData.json", "cache document file")
	tokenPath := flag.String("token-file", ".mdm-token", "token file used with -remember")
	email := flag.String("email", "", "login email (omit to reuse a remembered token)")
	password := flag.String("password", "", "login password")
	remember := flag.Bool("remember", false, "persist the token across restarts")
	interval := flag.Duration("interval", 30*time.Second, "periodic push interval")
	flag.Parse()

	logger := log.New(os.Stderr, "[syncagent] ", log.LstdFlags)

	store, err := bridge.NewStore(*cachePath)
	if err != nil {
		logger.Fatalf("cache load failed: %v", err)
	}

	b := bridge.New(store, bridge.Options{
		ServerURL:    *serverURL,
		CachePath:    *cachePath,
		TokenPath:    *tokenPath,
		Remember:     *remember,
		PushInterval: *interval,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *email != "" {
		if err := b.Login(ctx, *email, *password); err != nil {
			logger.Fatalf("login failed: %v", err)
		}
		logger.Printf("logged in as %s", *email)
	} else if !b.LoggedIn() {
		logger.Fatal("no stored token; run with -email and -password")
	}

	if err := b.Pull(ctx); err != nil {
		if errors.Is(err, bridge.ErrUnauthorized) {
			logger.Fatal("token rejected; log in again with -email and -password")
		}
		logger.Printf("initial pull failed: %v", err)
	} else {
		logger.Printf("cache synced from %s", *serverURL)
	}

	b.Run(ctx)
	logger.Println("sync agent stopped")
}
