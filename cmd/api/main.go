package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/strangerlabs/ghostline/internal/config"
	"github.com/strangerlabs/ghostline/internal/handler"
	"github.com/strangerlabs/ghostline/internal/handler/ws"
	"github.com/strangerlabs/ghostline/internal/model/persona"
	"github.com/strangerlabs/ghostline/internal/service/ai"
	"github.com/strangerlabs/ghostline/internal/service/humanize"
	"github.com/strangerlabs/ghostline/internal/service/relay"
	"github.com/strangerlabs/ghostline/internal/service/session"
	"github.com/strangerlabs/ghostline/internal/service/trigger"
	"github.com/strangerlabs/ghostline/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", cfg.Store.Path, err)
	}
	defer db.Close()

	personaStore := persona.NewMemoryStore(persona.Seed())
	sessions := session.NewManager(personaStore, db, db)
	triggers := trigger.NewDefaultEngine()

	var generator relay.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without generation - check the ARK_* environment variables")
		} else {
			generator = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	var humanizer *humanize.Humanizer
	if cfg.Relay.HumanizerEnabled {
		behavior, err := humanize.LoadBehaviorModel(cfg.Relay.BehaviorModelPath)
		if err != nil {
			log.Printf("warning: failed to load behavior model from %s: %v", cfg.Relay.BehaviorModelPath, err)
			behavior = humanize.DefaultBehaviorModel()
		}
		humanizer = humanize.New(humanize.DefaultConfig(), behavior, nil)
		log.Printf("humanizer enabled with %d slang tokens and %d emojis", len(behavior.Slang), len(behavior.TopEmojis))
	} else {
		log.Println("humanizer disabled by configuration")
	}

	hub := ws.NewHub()
	rly := relay.New(sessions, triggers, generator, humanizer, db, db, hub)

	router := handler.NewRouter(personaStore, sessions, rly, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ghostline listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
