package getresponse

import (
	"context"
	"net/url"
	"testing"

	httpclient "github.com/natserract/getresponse/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const searchURL = testBaseURL + "/search-contacts/contacts"

func TestSearchAllContacts_OneSearchPerSubscriberType(t *testing.T) {
	c, transport := newMockClient(t)
	var bodies []SearchContactsRequest

	transport.EXPECT().
		Post(gomock.Any(), searchURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, query url.Values, body any) (*httpclient.Response, error) {
			assert.Equal(t, "100", query.Get("perPage"))
			assert.Equal(t, "1", query.Get("page"))
			bodies = append(bodies, body.(SearchContactsRequest))
			return reply(200, `[]`), nil
		}).
		Times(4)

	contacts, err := c.SearchAllContacts(context.Background(), SearchOptions{
		CampaignIDs: []string{"V"},
		Name:        &StringFilter{Value: "Max"},
	})
	require.NoError(t, err)
	assert.Empty(t, contacts)

	require.Len(t, bodies, 4)
	for i, want := range SubscriberTypes {
		body := bodies[i]
		assert.Equal(t, []SubscriberType{want}, body.SubscribersType)
		assert.Equal(t, "or", body.SectionLogicOperator)
		require.Len(t, body.Section, 1)
		section := body.Section[0]
		assert.Equal(t, []string{"V"}, section.CampaignIDsList)
		assert.Equal(t, "and", section.LogicOperator)
		assert.Equal(t, []string{"receiving_autoresponder", "not_receiving_autoresponder"}, section.SubscriberCycle)
		assert.Equal(t, "all_time", section.SubscriptionDate)
		require.Len(t, section.Conditions, 1)
		cond := section.Conditions[0]
		assert.Equal(t, "name", cond.ConditionType)
		assert.Equal(t, "string_operator", cond.OperatorType)
		assert.Equal(t, OpIs, cond.Operator)
		require.NotNil(t, cond.Value)
		assert.Equal(t, "Max", *cond.Value)
	}
}

func TestSearchAllContacts_TagsContactsWithSubscriberType(t *testing.T) {
	c, transport := newMockClient(t)

	transport.EXPECT().
		Post(gomock.Any(), searchURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, query url.Values, body any) (*httpclient.Response, error) {
			if query.Get("page") != "1" {
				return reply(200, `[]`), nil
			}
			st := string(body.(SearchContactsRequest).SubscribersType[0])
			return reply(200, `[{"contactId":"`+st+`-1"},{"contactId":"`+st+`-2"}]`), nil
		}).
		Times(4)

	contacts, err := c.SearchAllContacts(context.Background(), SearchOptions{
		CampaignIDs:     []string{"V", "W"},
		SubscriberTypes: []SubscriberType{Removed, Subscribed},
	})
	require.NoError(t, err)
	require.Len(t, contacts, 4)
	assert.Equal(t, "removed-1", contacts[0].ID)
	assert.Equal(t, Removed, contacts[0].SubscriberType)
	assert.Equal(t, "removed-2", contacts[1].ID)
	assert.Equal(t, "subscribed-1", contacts[2].ID)
	assert.Equal(t, Subscribed, contacts[3].SubscriberType)
}

func TestSearchAllContacts_DefaultsToEveryCampaign(t *testing.T) {
	c, transport := newMockClient(t)

	gomock.InOrder(
		transport.EXPECT().
			Get(gomock.Any(), testBaseURL+"/campaigns", url.Values{"page": {"1"}}).
			Return(reply(200, `[{"campaignId":"A"},{"campaignId":"B"}]`), nil),
		transport.EXPECT().
			Get(gomock.Any(), testBaseURL+"/campaigns", url.Values{"page": {"2"}}).
			Return(reply(200, `[]`), nil),
		transport.EXPECT().
			Post(gomock.Any(), searchURL, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ url.Values, body any) (*httpclient.Response, error) {
				assert.Equal(t, []string{"A", "B"}, body.(SearchContactsRequest).Section[0].CampaignIDsList)
				return reply(200, `[]`), nil
			}),
	)

	_, err := c.SearchAllContacts(context.Background(), SearchOptions{SubscriberTypes: []SubscriberType{Unconfirmed}})
	require.NoError(t, err)
}

func TestSearchAllContacts_PreconditionsBeforeAnyRequest(t *testing.T) {
	tests := []struct {
		name string
		opts SearchOptions
		err  error
	}{
		{"name operator", SearchOptions{Name: &StringFilter{Operator: "like", Value: "Max"}}, ErrInvalidOperator},
		{"email operator", SearchOptions{Email: &StringFilter{Operator: OpAssigned}}, ErrInvalidOperator},
		{"custom field operator", SearchOptions{CustomFields: []CustomFieldFilter{{CustomFieldID: "kL6Nh", Operator: "between"}}}, ErrInvalidOperator},
		{"subscriber type", SearchOptions{SubscriberTypes: []SubscriberType{Subscribed, "bounced"}}, ErrInvalidSubscriberType},
		{"perPage", SearchOptions{PerPage: 5000}, ErrPerPageRange},
		{"duplicate page", SearchOptions{Page: 1, Params: Params{"page": 1}}, ErrDuplicateParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newMockClient(t)
			_, err := c.SearchAllContacts(context.Background(), tt.opts)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSearchConditions_CustomFields(t *testing.T) {
	conditions, err := searchConditions(SearchOptions{
		Email: &StringFilter{Operator: OpEnds, Value: "@example.com"},
		CustomFields: []CustomFieldFilter{
			{CustomFieldID: "kL6Nh", Operator: OpContains, Value: "18"},
			{CustomFieldID: "pQ2a", Operator: OpNotAssigned, Value: "ignored"},
		},
	})
	require.NoError(t, err)

	out, err := json.Marshal(conditions)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"conditionType":"email","operatorType":"string_operator","operator":"ends","value":"@example.com"},
		{"conditionType":"custom","scope":"kL6Nh","operatorType":"string_operator_list","operator":"contains","value":"18"},
		{"conditionType":"custom","scope":"pQ2a","operatorType":"string_operator_list","operator":"not_assigned"}
	]`, string(out))
}

func TestSearchConditions_EmptyIsArray(t *testing.T) {
	conditions, err := searchConditions(SearchOptions{})
	require.NoError(t, err)

	out, err := json.Marshal(SearchSection{Conditions: conditions})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"conditions":[]`)
}

func TestSearchContacts_ExplicitPerPage(t *testing.T) {
	c, transport := newMockClient(t)
	req := SearchContactsRequest{SubscribersType: []SubscriberType{Undelivered}}

	transport.EXPECT().
		Post(gomock.Any(), searchURL, url.Values{"page": {"3"}, "perPage": {"20"}}, req).
		Return(reply(200, `[{"contactId":"x"}]`), nil)

	contacts, err := c.SearchContacts(context.Background(), req, ListOptions{Page: 3, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, Undelivered, contacts[0].SubscriberType)
}

func TestSearchContacts_InvalidSubscriberType(t *testing.T) {
	c, _ := newMockClient(t)
	_, err := c.SearchContacts(context.Background(), SearchContactsRequest{SubscribersType: []SubscriberType{"bounced"}}, ListOptions{})
	assert.ErrorIs(t, err, ErrInvalidSubscriberType)
}
