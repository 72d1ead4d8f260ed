// Package snapshot copies the campaigns, custom fields, tags and contacts of a
// GetResponse account into Postgres.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natserract/getresponse/pkg/getresponse"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	DefaultMaxConcurrency = 10

	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Source is the part of the GetResponse client a snapshot reads from.
type Source interface {
	GetCampaigns(ctx context.Context, opts getresponse.ListOptions) ([]getresponse.Campaign, error)
	GetCustomFields(ctx context.Context, opts getresponse.ListOptions) ([]getresponse.CustomField, error)
	GetTags(ctx context.Context, opts getresponse.ListOptions) ([]getresponse.Tag, error)
	SearchAllContacts(ctx context.Context, opts getresponse.SearchOptions) ([]getresponse.Contact, error)
}

// Metrics tracks saved and failed rows per entity
type Metrics struct {
	RunID                 uuid.UUID
	CampaignsSucceeded    int
	CampaignsFailed       int
	CustomFieldsSucceeded int
	CustomFieldsFailed    int
	TagsSucceeded         int
	TagsFailed            int
	ContactsSucceeded     int
	ContactsFailed        int
	mu                    sync.Mutex
}

func (m *Metrics) add(entity string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch entity {
	case "campaign":
		if ok {
			m.CampaignsSucceeded++
		} else {
			m.CampaignsFailed++
		}
	case "custom field":
		if ok {
			m.CustomFieldsSucceeded++
		} else {
			m.CustomFieldsFailed++
		}
	case "tag":
		if ok {
			m.TagsSucceeded++
		} else {
			m.TagsFailed++
		}
	case "contact":
		if ok {
			m.ContactsSucceeded++
		} else {
			m.ContactsFailed++
		}
	}
}

// TotalSucceeded returns the total number of saved rows
func (m *Metrics) TotalSucceeded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CampaignsSucceeded + m.CustomFieldsSucceeded + m.TagsSucceeded + m.ContactsSucceeded
}

// TotalFailed returns the total number of rows that could not be saved
func (m *Metrics) TotalFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CampaignsFailed + m.CustomFieldsFailed + m.TagsFailed + m.ContactsFailed
}

type Options struct {
	// MaxConcurrency bounds concurrent writes to the store. API calls stay
	// sequential.
	MaxConcurrency int
	// SubscriberTypes limits the contacts searched. Empty means all of them.
	SubscriberTypes []getresponse.SubscriberType
}

// Service runs snapshots
type Service struct {
	source Source
	store  Store
	opts   Options
	logger *zap.Logger
}

func NewService(source Source, store Store, opts Options, logger *zap.Logger) *Service {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, store: store, opts: opts, logger: logger}
}

// SyncAll fetches every entity of the account and saves it. Rows that fail
// to save are counted and logged; a failed fetch aborts the run.
func (s *Service) SyncAll(ctx context.Context) (*Metrics, error) {
	startTime := time.Now()
	metrics := &Metrics{RunID: uuid.New()}
	runLogger := s.logger.With(zap.String("run_id", metrics.RunID.String()))

	if err := s.store.StartRun(ctx, metrics.RunID); err != nil {
		return metrics, err
	}
	runLogger.Info("Starting snapshot")

	runErr := s.sync(ctx, metrics, runLogger)

	status := RunStatusCompleted
	if runErr != nil {
		status = RunStatusFailed
	}
	// The run row is closed even when ctx was cancelled.
	finishCtx := context.WithoutCancel(ctx)
	if err := s.store.FinishRun(finishCtx, metrics.RunID, status, metrics.TotalSucceeded(), metrics.TotalFailed(), runErr); err != nil {
		runLogger.Warn("Failed to close sync run", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}

	runLogger.Info("Finished snapshot",
		zap.String("status", status),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("campaigns_succeeded", metrics.CampaignsSucceeded),
		zap.Int("campaigns_failed", metrics.CampaignsFailed),
		zap.Int("custom_fields_succeeded", metrics.CustomFieldsSucceeded),
		zap.Int("custom_fields_failed", metrics.CustomFieldsFailed),
		zap.Int("tags_succeeded", metrics.TagsSucceeded),
		zap.Int("tags_failed", metrics.TagsFailed),
		zap.Int("contacts_succeeded", metrics.ContactsSucceeded),
		zap.Int("contacts_failed", metrics.ContactsFailed))

	return metrics, runErr
}

func (s *Service) sync(ctx context.Context, metrics *Metrics, logger *zap.Logger) error {
	runID := metrics.RunID

	campaigns, err := s.source.GetCampaigns(ctx, getresponse.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	logger.Info("Fetched campaigns", zap.Int("count", len(campaigns)))
	saveAll(ctx, s, metrics, "campaign", campaigns, func(c getresponse.Campaign) string { return c.ID },
		func(ctx context.Context, c getresponse.Campaign) error { return s.store.SaveCampaign(ctx, runID, c) })

	fields, err := s.source.GetCustomFields(ctx, getresponse.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch custom fields: %w", err)
	}
	logger.Info("Fetched custom fields", zap.Int("count", len(fields)))
	saveAll(ctx, s, metrics, "custom field", fields, func(f getresponse.CustomField) string { return f.ID },
		func(ctx context.Context, f getresponse.CustomField) error { return s.store.SaveCustomField(ctx, runID, f) })

	tags, err := s.source.GetTags(ctx, getresponse.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	logger.Info("Fetched tags", zap.Int("count", len(tags)))
	saveAll(ctx, s, metrics, "tag", tags, func(t getresponse.Tag) string { return t.ID },
		func(ctx context.Context, t getresponse.Tag) error { return s.store.SaveTag(ctx, runID, t) })

	if len(campaigns) == 0 {
		logger.Info("No campaigns, skipping contacts")
		return nil
	}
	campaignIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		campaignIDs = append(campaignIDs, c.ID)
	}

	contacts, err := s.source.SearchAllContacts(ctx, getresponse.SearchOptions{
		CampaignIDs:     campaignIDs,
		SubscriberTypes: s.opts.SubscriberTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}
	logger.Info("Fetched contacts", zap.Int("count", len(contacts)))
	saveAll(ctx, s, metrics, "contact", contacts, func(c getresponse.Contact) string { return c.ID },
		func(ctx context.Context, c getresponse.Contact) error { return s.store.SaveContact(ctx, runID, c) })

	return nil
}

// saveAll writes items through a bounded pool. Failures are counted, not returned.
func saveAll[T any](ctx context.Context, s *Service, metrics *Metrics, entity string, items []T, id func(T) string, save func(context.Context, T) error) {
	p := pool.New().WithMaxGoroutines(s.opts.MaxConcurrency).WithErrors()
	for _, item := range items {
		p.Go(func() error {
			if err := save(ctx, item); err != nil {
				metrics.add(entity, false)
				s.logger.Error("Failed to save "+entity,
					zap.String("id", id(item)),
					zap.Error(err))
				return err
			}
			metrics.add(entity, true)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		s.logger.Warn("Some rows were not saved",
			zap.String("entity", entity),
			zap.Error(err))
	}
}
