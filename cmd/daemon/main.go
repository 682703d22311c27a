package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oil-tracker/internal/config"
	"oil-tracker/internal/database"
	"oil-tracker/internal/ingest"
	"oil-tracker/internal/services/crudeoil"
	"oil-tracker/internal/services/mailer"
	"oil-tracker/internal/services/scraper"

	"github.com/joho/godotenv"
)

var (
	interval = flag.Duration("interval", 12*time.Hour, "time between scrape runs")
	runOnce  = flag.Bool("once", false, "run a single scrape and exit")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	pipeline := &ingest.Pipeline{
		DB:      db,
		Scraper: scraper.New(cfg.ScrapeURL),
		Crude:   crudeoil.New(),
		Mailer: mailer.New(mailer.Config{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.AlertEmail,
		}),
		PplChangeThreshold: cfg.PplChangeThreshold,
	}

	if *runOnce {
		runScrape(pipeline)
		return
	}

	log.Printf("Scrape daemon started (PID: %d, interval: %v)", os.Getpid(), *interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	// First run immediately, then on the ticker
	runScrape(pipeline)

	for {
		select {
		case <-sigChan:
			log.Println("Shutdown signal received, stopping")
			return
		case <-ticker.C:
			runScrape(pipeline)
		}
	}
}

func runScrape(pipeline *ingest.Pipeline) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := pipeline.Run(ctx, true)
	if err != nil {
		log.Printf("Scrape failed (failure snapshot recorded): %v", err)
		return
	}

	log.Printf("Snapshot recorded: %d suppliers, cheapest £%.2f (%s), %.1fp/L",
		result.Snapshot.SupplierCount,
		result.Snapshot.CheapestPrice500L,
		result.Snapshot.CheapestSupplier,
		result.Snapshot.CheapestPpl)
}
