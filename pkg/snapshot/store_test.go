package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/natserract/getresponse/pkg/getresponse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type execCall struct {
	sql  string
	args []any
}

type recordingExecer struct {
	calls []execCall
	err   error
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.calls = append(r.calls, execCall{sql: sql, args: args})
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresStore_SaveContact(t *testing.T) {
	db := &recordingExecer{}
	store := NewPostgresStore(db, zap.NewNop())
	runID := uuid.New()
	created := time.Date(2014, 2, 12, 15, 19, 21, 0, time.UTC)

	contact := getresponse.Contact{
		ID:              "c1",
		Name:            getresponse.Some("Max"),
		Campaign:        getresponse.Some(getresponse.Campaign{ID: "V"}),
		CreatedOn:       getresponse.Some(created),
		EngagementScore: getresponse.Some(4),
		SubscriberType:  getresponse.Removed,
		Raw:             map[string]any{"contactId": "c1", "name": "Max"},
	}
	require.NoError(t, store.SaveContact(context.Background(), runID, contact))

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	assert.True(t, strings.HasPrefix(call.sql, "INSERT INTO contacts"))
	assert.Contains(t, call.sql, "ON CONFLICT (id) DO UPDATE")
	require.Len(t, call.args, 10)
	assert.Equal(t, "c1", call.args[0])
	assert.Equal(t, pgtype.Text{String: "V", Valid: true}, call.args[1])
	assert.Equal(t, pgtype.Text{String: "Max", Valid: true}, call.args[2])
	assert.Equal(t, pgtype.Text{}, call.args[3])
	assert.Equal(t, "removed", call.args[4])
	assert.Equal(t, pgtype.Int4{Int32: 4, Valid: true}, call.args[5])
	assert.Equal(t, pgtype.Timestamptz{Time: created, Valid: true}, call.args[6])
	assert.Equal(t, pgtype.Timestamptz{}, call.args[7])
	assert.JSONEq(t, `{"contactId":"c1","name":"Max"}`, string(call.args[8].([]byte)))
	assert.Equal(t, runID, call.args[9])
}

func TestPostgresStore_SaveCampaignNullables(t *testing.T) {
	db := &recordingExecer{}
	store := NewPostgresStore(db, zap.NewNop())

	require.NoError(t, store.SaveCampaign(context.Background(), uuid.New(), getresponse.Campaign{ID: "V", Raw: map[string]any{"campaignId": "V"}}))

	args := db.calls[0].args
	assert.Equal(t, pgtype.Text{}, args[1])
	assert.Equal(t, pgtype.Bool{}, args[3])
	assert.Equal(t, pgtype.Timestamptz{}, args[4])
}

func TestPostgresStore_FinishRun(t *testing.T) {
	db := &recordingExecer{}
	store := NewPostgresStore(db, zap.NewNop())
	runID := uuid.New()

	require.NoError(t, store.FinishRun(context.Background(), runID, RunStatusFailed, 3, 1, errors.New("boom")))

	args := db.calls[0].args
	assert.Equal(t, runID, args[0])
	assert.Equal(t, RunStatusFailed, args[1])
	assert.Equal(t, int32(3), args[3])
	assert.Equal(t, int32(1), args[4])
	assert.Equal(t, pgtype.Text{String: "boom", Valid: true}, args[5])
}

func TestPostgresStore_WrapsExecErrors(t *testing.T) {
	dbErr := &pgconn.PgError{Code: "23503", Message: "foreign key violation"}
	store := NewPostgresStore(&recordingExecer{err: dbErr}, zap.NewNop())

	err := store.SaveTag(context.Background(), uuid.New(), getresponse.Tag{ID: "m7E2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m7E2")

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23503", pgErr.Code)
}
