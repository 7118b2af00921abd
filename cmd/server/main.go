package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/footprint/internal/api"
	"github.com/ignite/footprint/internal/auth"
	"github.com/ignite/footprint/internal/config"
	"github.com/ignite/footprint/internal/enrich"
	"github.com/ignite/footprint/internal/mail"
	"github.com/ignite/footprint/internal/session"
	"github.com/ignite/footprint/internal/storage"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres token store
	if !cfg.Database.Enabled || cfg.Database.URL == "" {
		log.Fatal("Database is required: set database.url or DATABASE_URL")
	}
	db, err := storage.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	tokens := storage.NewTokenStore(db)
	if err := tokens.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare token schema: %v", err)
	}
	log.Println("Token store ready")

	// Redis session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err)
	}
	defer redisClient.Close()
	sessions := session.NewStore(redisClient, cfg.Redis.SessionTTL())
	log.Printf("Session store ready (TTL %s)", cfg.Redis.SessionTTL())

	authManager := auth.NewManager(cfg.Auth, tokens)

	// Optional Bedrock enrichment
	var enricher api.Enricher
	if cfg.Enrich.Enabled {
		analyzer, err := enrich.NewAnalyzer(ctx, cfg.Enrich)
		if err != nil {
			log.Printf("Enrichment disabled: %v", err)
		} else {
			enricher = analyzer
		}
	}

	sources := func(ctx context.Context, email string) (mail.Source, error) {
		client, err := authManager.Client(ctx, email)
		if err != nil {
			return nil, err
		}
		return mail.NewGmailSource(ctx, client)
	}

	runner := api.NewRunner(sources, enricher, sessions,
		cfg.Analysis.MaxReceived, cfg.Analysis.MaxSent, cfg.Analysis.Timeout())
	handlers := api.NewHandlers(runner, sessions, tokens)
	server := api.NewServer(cfg.Server, handlers, authManager)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
