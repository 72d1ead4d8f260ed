package getresponse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decodeObject(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

// entityMappers builds each entity from a payload and reports its id.
var entityMappers = []struct {
	name  string
	idKey string
	build func(raw map[string]any) (string, map[string]any, error)
}{
	{"account", "accountId", func(raw map[string]any) (string, map[string]any, error) {
		a, err := NewAccount(raw)
		return a.ID, a.Raw, err
	}},
	{"campaign", "campaignId", func(raw map[string]any) (string, map[string]any, error) {
		c, err := NewCampaign(raw)
		return c.ID, c.Raw, err
	}},
	{"contact", "contactId", func(raw map[string]any) (string, map[string]any, error) {
		c, err := NewContact(raw, nil)
		return c.ID, c.Raw, err
	}},
	{"custom field", "customFieldId", func(raw map[string]any) (string, map[string]any, error) {
		f, err := NewCustomField(raw)
		return f.ID, f.Raw, err
	}},
	{"tag", "tagId", func(raw map[string]any) (string, map[string]any, error) {
		tg, err := NewTag(raw)
		return tg.ID, tg.Raw, err
	}},
}

func TestMappers_MissingID(t *testing.T) {
	for _, m := range entityMappers {
		for _, tt := range []struct {
			name string
			id   any
			set  bool
		}{
			{"absent", nil, false},
			{"null", nil, true},
			{"empty", "", true},
		} {
			t.Run(m.name+"/"+tt.name, func(t *testing.T) {
				raw := map[string]any{"name": "Max"}
				if tt.set {
					raw[m.idKey] = tt.id
				}
				_, _, err := m.build(raw)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingID)
			})
		}
	}
}

func TestMappers_KeepRawPayload(t *testing.T) {
	for _, m := range entityMappers {
		t.Run(m.name, func(t *testing.T) {
			raw := map[string]any{m.idKey: "x1", "name": "Max", "unknownKey": map[string]any{"kept": true}}
			id, got, err := m.build(raw)
			require.NoError(t, err)
			assert.Equal(t, "x1", id)
			assert.Equal(t, raw, got)
		})
	}
}

func TestNewContact_MismatchedOptionalFieldIsSkipped(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	raw := decodeObject(t, `{
		"contactId": "c1",
		"name": "Max",
		"activities": {"a": 1},
		"scoring": "high",
		"campaign": "V"
	}`)

	c, err := contactMapping(Subscribed).one(raw, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, Some("Max"), c.Name)
	assert.False(t, c.Activities.Valid)
	assert.False(t, c.Scoring.Valid)
	assert.False(t, c.Campaign.Valid)
	assert.Equal(t, map[string]any{"a": float64(1)}, c.Raw["activities"])

	skipped := logs.FilterMessage("Skipping unreadable field").All()
	require.Len(t, skipped, 3)
	fields := []string{}
	for _, entry := range skipped {
		fields = append(fields, entry.ContextMap()["field"].(string))
	}
	assert.ElementsMatch(t, []string{"activities", "scoring", "campaign"}, fields)
}

func TestNewContact_FractionalIntegersAreNotTruncated(t *testing.T) {
	c, err := NewContact(decodeObject(t, `{"contactId":"c1","engagementScore":3.7,"dayOfCycle":2.0}`), nil)
	require.NoError(t, err)

	assert.False(t, c.EngagementScore.Valid)
	assert.Equal(t, Some(2), c.DayOfCycle)
}

func TestNewContact_NullAndAbsentAreTheSame(t *testing.T) {
	withNull, err := NewContact(decodeObject(t, `{"contactId":"c1","note":null,"scoring":null}`), nil)
	require.NoError(t, err)
	absent, err := NewContact(decodeObject(t, `{"contactId":"c1"}`), nil)
	require.NoError(t, err)

	assert.False(t, withNull.Note.Valid)
	assert.False(t, withNull.Scoring.Valid)
	assert.Equal(t, absent.Note, withNull.Note)
	assert.Equal(t, absent.Scoring, withNull.Scoring)
}

func TestNewContact_Fields(t *testing.T) {
	payload := decodeObject(t, `{
		"contactId": "pV3r",
		"href": "https://api.getresponse.com/v3/contacts/pV3r",
		"name": "Max Mustermann",
		"email": "max@example.com",
		"dayOfCycle": "5",
		"origin": "api",
		"createdOn": "2014-02-12T15:19:21+0000",
		"changedOn": "",
		"campaign": {"campaignId": "V", "name": "Newsletter"},
		"scoring": 12.5,
		"engagementScore": 3,
		"customFieldValues": [{"customFieldId": "kL6Nh", "name": "age", "value": ["18-35"]}],
		"tags": [{"tagId": "m7E2", "name": "vip", "color": "red"}],
		"unknownKey": {"kept": true}
	}`)

	c, err := NewContact(payload, nil)
	require.NoError(t, err)

	assert.Equal(t, "pV3r", c.ID)
	assert.Equal(t, Some("Max Mustermann"), c.Name)
	assert.Equal(t, Some(5), c.DayOfCycle)
	assert.Equal(t, Some(12.5), c.Scoring)
	assert.Equal(t, Some(3), c.EngagementScore)
	assert.Equal(t, Subscribed, c.SubscriberType)

	require.True(t, c.CreatedOn.Valid)
	assert.True(t, c.CreatedOn.Value.Equal(time.Date(2014, 2, 12, 15, 19, 21, 0, time.UTC)))
	assert.False(t, c.ChangedOn.Valid)

	require.True(t, c.Campaign.Valid)
	assert.Equal(t, "V", c.Campaign.Value.ID)
	assert.Equal(t, Some("Newsletter"), c.Campaign.Value.Name)

	require.True(t, c.CustomFieldValues.Valid)
	assert.Equal(t, []CustomFieldValue{{CustomFieldID: "kL6Nh", Name: "age", Value: []string{"18-35"}}}, c.CustomFieldValues.Value)
	require.True(t, c.Tags.Valid)
	assert.Equal(t, []ContactTag{{TagID: "m7E2", Name: "vip", Color: "red"}}, c.Tags.Value)

	assert.Equal(t, payload, c.Raw)
	assert.Contains(t, c.Raw, "unknownKey")
}

func TestNewContact_BadTimestampFailsRecord(t *testing.T) {
	_, err := NewContact(decodeObject(t, `{"contactId":"c1","createdOn":"yesterday"}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "createdOn")
}

func TestNewContact_SubscriberTypeFromRequestBody(t *testing.T) {
	raw := decodeObject(t, `{"contactId":"c1"}`)

	c, err := NewContact(raw, SearchContactsRequest{SubscribersType: []SubscriberType{Removed, Subscribed}})
	require.NoError(t, err)
	assert.Equal(t, Removed, c.SubscriberType)

	c, err = NewContact(raw, map[string]any{"subscribersType": []any{"unconfirmed"}})
	require.NoError(t, err)
	assert.Equal(t, Unconfirmed, c.SubscriberType)

	_, err = NewContact(raw, map[string]any{"subscribersType": []any{"bounced"}})
	assert.ErrorIs(t, err, ErrInvalidSubscriberType)
}

func TestNewCampaign(t *testing.T) {
	c, err := NewCampaign(decodeObject(t, `{
		"campaignId": "V",
		"name": "Newsletter",
		"isDefault": "true",
		"createdOn": "2019-06-03T10:30:00+02:00",
		"optinTypes": {"email": "single", "api": "double"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, Some(true), c.IsDefault)
	require.True(t, c.CreatedOn.Valid)
	assert.Equal(t, 8, c.CreatedOn.Value.UTC().Hour())
	assert.Equal(t, Some(map[string]any{"email": "single", "api": "double"}), c.OptinTypes)
	assert.False(t, c.Description.Valid)
}

func TestNewAccount_Name(t *testing.T) {
	a, err := NewAccount(decodeObject(t, `{"accountId":"a1","firstName":"Max","lastName":null}`))
	require.NoError(t, err)
	assert.Equal(t, "Max", a.Name())

	a, err = NewAccount(decodeObject(t, `{"accountId":"a1","firstName":"Max","lastName":"Power"}`))
	require.NoError(t, err)
	assert.Equal(t, "Max Power", a.Name())
}

func TestMapping_ListKeepsOrder(t *testing.T) {
	var payload any
	require.NoError(t, json.Unmarshal([]byte(`[{"tagId":"b"},{"tagId":"a"},{"tagId":"c"}]`), &payload))

	tags, err := tagMapping.list(payload, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{tags[0].ID, tags[1].ID, tags[2].ID})

	_, err = tagMapping.list(map[string]any{"tagId": "x"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewCustomField_NumericID(t *testing.T) {
	f, err := NewCustomField(map[string]any{"customFieldId": float64(42), "hidden": "false", "values": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "42", f.ID)
	assert.Equal(t, Some(false), f.Hidden)
	assert.Equal(t, Some([]string{"a", "b"}), f.Values)
}
