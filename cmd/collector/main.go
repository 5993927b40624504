package main

import (
	"context"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soulstats/collector/internal/config"
	"github.com/soulstats/collector/pkg/gateway"
	"github.com/soulstats/collector/pkg/pipeline"
	"github.com/soulstats/collector/pkg/repositories/record"
	"github.com/soulstats/collector/pkg/storage"
	"github.com/soulstats/collector/pkg/storage/file"
	"github.com/soulstats/collector/pkg/storage/sqlite"
)

const startupTimeout = 60 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Blob store for live snapshots, pending ids, and day buckets
	var store storage.Store
	if cfg.StorageType == "sqlite" {
		dbPath := filepath.Join(cfg.DataDir, "collector.db")
		log.Printf("Using SQLite blob store at %s", dbPath)
		store, err = sqlite.New(dbPath)
	} else {
		log.Printf("Using file blob store under %s", cfg.DataDir)
		store, err = file.New(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("Error opening blob store: %v", err)
	}
	defer store.Close()

	repo, err := record.NewElasticsearchRepository(&record.ElasticsearchConfig{
		URL:         cfg.ElasticURL,
		Username:    cfg.ElasticUsername,
		Password:    cfg.ElasticPassword,
		IndexPrefix: cfg.IndexPrefix,
		Suffix:      contestSuffix(cfg),
	})
	if err != nil {
		log.Fatalf("Error connecting to Elasticsearch: %v", err)
	}
	defer repo.Close()

	client := gateway.Dial(gateway.Config{
		URL:         cfg.GatewayURL,
		AccessToken: cfg.AccessToken,
	})
	defer client.Close()

	readyCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := client.WaitForReady(readyCtx); err != nil {
		log.Fatalf("Error connecting to game service: %v", err)
	}

	p, err := pipeline.New(pipeline.Config{
		Client:     client,
		Repository: repo,
		Store:      store,
	})
	if err != nil {
		log.Fatalf("Error building pipeline: %v", err)
	}

	ctx := context.Background()
	switch {
	case cfg.ContestID != "":
		contestID, err := strconv.ParseInt(cfg.ContestID, 10, 64)
		if err != nil {
			log.Fatalf("SYNC_CONTEST must be a numeric contest id: %v", err)
		}
		log.Printf("Resyncing contest %d", contestID)
		if err := p.SyncContest(ctx, contestID); err != nil {
			log.Fatalf("Contest resync failed: %v", err)
		}
	case cfg.SyncDays:
		log.Println("Running day backfill")
		if err := p.Backfill(ctx); err != nil {
			log.Fatalf("Backfill failed: %v", err)
		}
	default:
		n, err := p.PollOnce(ctx)
		if err != nil {
			log.Fatalf("Poll failed: %v", err)
		}
		log.Printf("%d records saved", n)
	}
}

// contestSuffix namespaces the contest store away from the main one
func contestSuffix(cfg *config.Config) string {
	if cfg.ContestID == "" {
		return ""
	}
	if cfg.ContestSuffix != "" {
		return cfg.ContestSuffix
	}
	return "_contest"
}
