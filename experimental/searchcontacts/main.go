package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/natserract/getresponse/pkg/config"
	"github.com/natserract/getresponse/pkg/getresponse"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <name> [campaignId,...]\n", os.Args[0])
		os.Exit(2)
	}
	name := os.Args[1]
	var campaignIDs []string
	if len(os.Args) > 2 {
		campaignIDs = strings.Split(os.Args[2], ",")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	client, err := getresponse.NewWithLogger(cfg, logger)
	if err != nil {
		logger.Error("Failed to create GetResponse client", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to create GetResponse client: %v\n", err)
		os.Exit(1)
	}

	searchByName(client, name, campaignIDs)
}
