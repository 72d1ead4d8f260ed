package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	jsoniter "github.com/json-iterator/go"
	"github.com/natserract/getresponse/pkg/getresponse"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists snapshot rows. Saves are upserts keyed by the GetResponse id.
type Store interface {
	StartRun(ctx context.Context, runID uuid.UUID) error
	FinishRun(ctx context.Context, runID uuid.UUID, status string, succeeded, failed int, runErr error) error
	SaveCampaign(ctx context.Context, runID uuid.UUID, c getresponse.Campaign) error
	SaveCustomField(ctx context.Context, runID uuid.UUID, f getresponse.CustomField) error
	SaveTag(ctx context.Context, runID uuid.UUID, t getresponse.Tag) error
	SaveContact(ctx context.Context, runID uuid.UUID, c getresponse.Contact) error
}

// Execer is the part of a pgx pool the store needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore writes snapshot rows with pgx.
type PostgresStore struct {
	db     Execer
	logger *zap.Logger
}

func NewPostgresStore(db Execer, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

const (
	startRunSQL = `INSERT INTO sync_runs (id, status, started_at) VALUES ($1, $2, $3)`

	finishRunSQL = `UPDATE sync_runs
SET status = $2, finished_at = $3, items_succeeded = $4, items_failed = $5, error = $6
WHERE id = $1`

	upsertCampaignSQL = `INSERT INTO campaigns (id, name, language_code, is_default, created_on, raw, sync_run_id, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    language_code = EXCLUDED.language_code,
    is_default = EXCLUDED.is_default,
    created_on = EXCLUDED.created_on,
    raw = EXCLUDED.raw,
    sync_run_id = EXCLUDED.sync_run_id,
    synced_at = now()`

	upsertCustomFieldSQL = `INSERT INTO custom_fields (id, name, field_type, value_type, hidden, raw, sync_run_id, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    field_type = EXCLUDED.field_type,
    value_type = EXCLUDED.value_type,
    hidden = EXCLUDED.hidden,
    raw = EXCLUDED.raw,
    sync_run_id = EXCLUDED.sync_run_id,
    synced_at = now()`

	upsertTagSQL = `INSERT INTO tags (id, name, color, raw, sync_run_id, synced_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    color = EXCLUDED.color,
    raw = EXCLUDED.raw,
    sync_run_id = EXCLUDED.sync_run_id,
    synced_at = now()`

	upsertContactSQL = `INSERT INTO contacts (id, campaign_id, name, email, subscriber_type, engagement_score, created_on, changed_on, raw, sync_run_id, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (id) DO UPDATE SET
    campaign_id = EXCLUDED.campaign_id,
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    subscriber_type = EXCLUDED.subscriber_type,
    engagement_score = EXCLUDED.engagement_score,
    created_on = EXCLUDED.created_on,
    changed_on = EXCLUDED.changed_on,
    raw = EXCLUDED.raw,
    sync_run_id = EXCLUDED.sync_run_id,
    synced_at = now()`
)

func (s *PostgresStore) StartRun(ctx context.Context, runID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, startRunSQL, runID, "running", time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to start sync run %s: %w", runID, err)
	}
	return nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID uuid.UUID, status string, succeeded, failed int, runErr error) error {
	errText := pgtype.Text{}
	if runErr != nil {
		errText = pgtype.Text{String: runErr.Error(), Valid: true}
	}
	_, err := s.db.Exec(ctx, finishRunSQL, runID, status, time.Now().UTC(), int32(succeeded), int32(failed), errText)
	if err != nil {
		return fmt.Errorf("failed to finish sync run %s: %w", runID, err)
	}
	return nil
}

func (s *PostgresStore) SaveCampaign(ctx context.Context, runID uuid.UUID, c getresponse.Campaign) error {
	raw, err := json.Marshal(c.Raw)
	if err != nil {
		return fmt.Errorf("failed to encode campaign %s: %w", c.ID, err)
	}
	_, err = s.db.Exec(ctx, upsertCampaignSQL,
		c.ID,
		text(c.Name),
		text(c.LanguageCode),
		pgtype.Bool{Bool: c.IsDefault.Value, Valid: c.IsDefault.Valid},
		timestamptz(c.CreatedOn),
		raw,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign %s: %w", c.ID, err)
	}
	s.logger.Debug("Saved campaign", zap.String("campaign_id", c.ID))
	return nil
}

func (s *PostgresStore) SaveCustomField(ctx context.Context, runID uuid.UUID, f getresponse.CustomField) error {
	raw, err := json.Marshal(f.Raw)
	if err != nil {
		return fmt.Errorf("failed to encode custom field %s: %w", f.ID, err)
	}
	_, err = s.db.Exec(ctx, upsertCustomFieldSQL,
		f.ID,
		text(f.Name),
		text(f.FieldType),
		text(f.ValueType),
		pgtype.Bool{Bool: f.Hidden.Value, Valid: f.Hidden.Valid},
		raw,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to save custom field %s: %w", f.ID, err)
	}
	s.logger.Debug("Saved custom field", zap.String("custom_field_id", f.ID))
	return nil
}

func (s *PostgresStore) SaveTag(ctx context.Context, runID uuid.UUID, t getresponse.Tag) error {
	raw, err := json.Marshal(t.Raw)
	if err != nil {
		return fmt.Errorf("failed to encode tag %s: %w", t.ID, err)
	}
	if _, err := s.db.Exec(ctx, upsertTagSQL, t.ID, text(t.Name), text(t.Color), raw, runID); err != nil {
		return fmt.Errorf("failed to save tag %s: %w", t.ID, err)
	}
	s.logger.Debug("Saved tag", zap.String("tag_id", t.ID))
	return nil
}

func (s *PostgresStore) SaveContact(ctx context.Context, runID uuid.UUID, c getresponse.Contact) error {
	raw, err := json.Marshal(c.Raw)
	if err != nil {
		return fmt.Errorf("failed to encode contact %s: %w", c.ID, err)
	}
	campaignID := pgtype.Text{}
	if c.Campaign.Valid {
		campaignID = pgtype.Text{String: c.Campaign.Value.ID, Valid: true}
	}
	_, err = s.db.Exec(ctx, upsertContactSQL,
		c.ID,
		campaignID,
		text(c.Name),
		text(c.Email),
		string(c.SubscriberType),
		pgtype.Int4{Int32: int32(c.EngagementScore.Value), Valid: c.EngagementScore.Valid},
		timestamptz(c.CreatedOn),
		timestamptz(c.ChangedOn),
		raw,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact %s: %w", c.ID, err)
	}
	s.logger.Debug("Saved contact", zap.String("contact_id", c.ID))
	return nil
}

func text(o getresponse.Opt[string]) pgtype.Text {
	return pgtype.Text{String: o.Value, Valid: o.Valid}
}

func timestamptz(o getresponse.Opt[time.Time]) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: o.Value, Valid: o.Valid}
}
