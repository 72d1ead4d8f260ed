package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/natserract/getresponse/pkg/config"
	"github.com/natserract/getresponse/pkg/getresponse"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	exportDir   = "exports"
	exportFname = "contacts.json"
)

// exportedContact is one line of the export.
type exportedContact struct {
	ID              string                         `json:"id"`
	Name            string                         `json:"name,omitempty"`
	Email           string                         `json:"email,omitempty"`
	CampaignID      string                         `json:"campaignId,omitempty"`
	SubscriberType  getresponse.SubscriberType     `json:"subscriberType"`
	EngagementScore *int                           `json:"engagementScore"`
	CreatedOn       string                         `json:"createdOn,omitempty"`
	Tags            []getresponse.ContactTag       `json:"tags,omitempty"`
	CustomFields    []getresponse.CustomFieldValue `json:"customFieldValues,omitempty"`
}

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

	client, err := getresponse.NewWithLogger(cfg, logger)
	if err != nil {
		logger.Error("Failed to create GetResponse client", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to create GetResponse client: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Phase 1: every contact, all subscriber types
	contacts, err := client.SearchAllContacts(ctx, getresponse.SearchOptions{})
	if err != nil {
		logger.Error("Failed to fetch contacts", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to fetch contacts: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Fetched contacts", zap.Int("count", len(contacts)))

	// Phase 2: most engaged first, unscored last
	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := contacts[i].EngagementScore, contacts[j].EngagementScore
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value > b.Value
	})

	// Phase 3: export
	out := make([]exportedContact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toExport(c))
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		logger.Error("Failed to create exports dir", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to create exports dir: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(exportDir, exportFname)
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal JSON", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		logger.Error("Failed to write export file", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	logger.Info("Export written", zap.String("path", path), zap.Int("count", len(out)))
	fmt.Printf("Exported %d contacts to %s\n", len(out), path)
}

func toExport(c getresponse.Contact) exportedContact {
	e := exportedContact{
		ID:             c.ID,
		Name:           c.Name.Value,
		Email:          c.Email.Value,
		SubscriberType: c.SubscriberType,
		Tags:           c.Tags.Value,
		CustomFields:   c.CustomFieldValues.Value,
	}
	if c.Campaign.Valid {
		e.CampaignID = c.Campaign.Value.ID
	}
	if score, ok := c.EngagementScore.Get(); ok {
		e.EngagementScore = &score
	}
	if created, ok := c.CreatedOn.Get(); ok {
		e.CreatedOn = created.Format(time.RFC3339)
	}
	return e
}
