package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/natserract/getresponse/pkg/config"
	"github.com/natserract/getresponse/pkg/getresponse"
	"github.com/natserract/getresponse/pkg/snapshot"
	"github.com/natserract/getresponse/pkg/snapshot/schema/postgres"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg, err := postgres.NewConfig()
	if err != nil {
		logger.Error("Failed to load database config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load database config: %v\n", err)
		os.Exit(1)
	}
	db, err := postgres.New(ctx, dbCfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		logger.Error("Failed to initialize schema", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to initialize schema: %v\n", err)
		os.Exit(1)
	}

	client, err := getresponse.NewWithLogger(cfg, logger)
	if err != nil {
		logger.Error("Failed to create GetResponse client", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to create GetResponse client: %v\n", err)
		os.Exit(1)
	}

	opts := snapshot.Options{}
	if raw := os.Getenv("SNAPSHOT_MAX_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "SNAPSHOT_MAX_CONCURRENCY: %v\n", err)
			os.Exit(1)
		}
		opts.MaxConcurrency = n
	}

	store := snapshot.NewPostgresStore(db, logger)
	svc := snapshot.NewService(client, store, opts, logger)

	metrics, err := svc.SyncAll(ctx)
	if err != nil {
		logger.Error("Snapshot failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Snapshot %s completed\n", metrics.RunID)
	fmt.Printf("  Campaigns: %d succeeded, %d failed\n", metrics.CampaignsSucceeded, metrics.CampaignsFailed)
	fmt.Printf("  Custom fields: %d succeeded, %d failed\n", metrics.CustomFieldsSucceeded, metrics.CustomFieldsFailed)
	fmt.Printf("  Tags: %d succeeded, %d failed\n", metrics.TagsSucceeded, metrics.TagsFailed)
	fmt.Printf("  Contacts: %d succeeded, %d failed\n", metrics.ContactsSucceeded, metrics.ContactsFailed)
	fmt.Printf("  Total: %d succeeded, %d failed\n", metrics.TotalSucceeded(), metrics.TotalFailed())
}
