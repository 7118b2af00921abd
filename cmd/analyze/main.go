package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ignite/footprint/internal/auth"
	"github.com/ignite/footprint/internal/config"
	"github.com/ignite/footprint/internal/enrich"
	"github.com/ignite/footprint/internal/mail"
	"github.com/ignite/footprint/internal/signal"
	"github.com/ignite/footprint/internal/storage"
)

// analyze runs one extraction synchronously and prints the report as
// JSON. The mailbox comes either from a JSON export file or from Gmail
// using a previously connected account.
func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "path to config file")
		email      = flag.String("email", "", "connected account to analyze")
		exportPath = flag.String("export", "", "JSON mailbox export to analyze instead of Gmail")
		useEnrich  = flag.Bool("enrich", false, "run LLM enrichment when configured")
	)
	flag.Parse()

	if *email == "" && *exportPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -email <account> | -export <file.json>")
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Analysis.Timeout())
	defer cancel()

	var (
		received, sent []mail.Message
		userEmail      string
	)

	if *exportPath != "" {
		box, err := mail.LoadExport(*exportPath)
		if err != nil {
			log.Fatalf("Failed to load export: %v", err)
		}
		received, sent = box.Received, box.Sent
		userEmail = *email
	} else {
		if !cfg.Database.Enabled || cfg.Database.URL == "" {
			log.Fatal("Database is required for Gmail analysis: set database.url or DATABASE_URL")
		}
		db, err := storage.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer db.Close()

		authManager := auth.NewManager(cfg.Auth, storage.NewTokenStore(db))
		client, err := authManager.Client(ctx, *email)
		if err != nil {
			log.Fatalf("Account %s is not connected: %v", *email, err)
		}

		source, err := mail.NewGmailSource(ctx, client)
		if err != nil {
			log.Fatalf("Failed to open Gmail: %v", err)
		}

		userEmail, err = source.UserEmail(ctx)
		if err != nil {
			log.Fatalf("Failed to read profile: %v", err)
		}
		received, err = source.FetchReceived(ctx, cfg.Analysis.MaxReceived)
		if err != nil {
			log.Fatalf("Failed to fetch received mail: %v", err)
		}
		sent, err = source.FetchSent(ctx, cfg.Analysis.MaxSent)
		if err != nil {
			log.Fatalf("Failed to fetch sent mail: %v", err)
		}
	}

	extractor := signal.NewExtractor()
	if *useEnrich && cfg.Enrich.Enabled && len(sent) > 0 {
		analyzer, err := enrich.NewAnalyzer(ctx, cfg.Enrich)
		if err != nil {
			log.Printf("Enrichment unavailable: %v", err)
		} else if enrichment, err := analyzer.Analyze(ctx, sent); err != nil {
			log.Printf("Enrichment failed: %v", err)
		} else if enrichment != nil {
			extractor = extractor.WithEnrichment(enrichment)
		}
	}

	report := extractor.ExtractAllSignals(received, sent, userEmail)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}
