package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"MarketBoard/internal/collector"
	"MarketBoard/internal/config"
	"MarketBoard/internal/pipeline"
	"MarketBoard/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketBoard starting...")

	// A .env file is a convenience for local runs; real environment wins.
	_ = godotenv.Load(".env")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Provider {
	case "polygon":
		fetcher = collector.NewPolygonFetcher(cfg.APIKey, cfg.RequestsPerMinute, cfg.Proxy)
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	default:
		fetcher = &collector.MockFetcher{}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot build unless a rebuild schedule is configured.
	if cfg.RebuildCron == "" {
		if err := pipeline.Run(ctx, cfg, fetcher); err != nil {
			log.Fatalf("[FATAL] build dashboard: %v", err)
		}
		log.Println("[INFO] MarketBoard done")
		return
	}

	sched := scheduler.NewScheduler(ctx, func(ctx context.Context) error {
		return pipeline.Run(ctx, cfg, fetcher)
	})
	if err := sched.Register(cfg.RebuildCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, building now")
		go sched.RunNow()
	}

	log.Printf("[INFO] MarketBoard is running on schedule %q. Press Ctrl+C to stop.", cfg.RebuildCron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] MarketBoard stopped")
}
