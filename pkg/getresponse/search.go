package getresponse

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Operator compares a contact attribute in a search condition.
type Operator string

const (
	OpIs          Operator = "is"
	OpIsNot       Operator = "is_not"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStarts      Operator = "starts"
	OpEnds        Operator = "ends"
	OpNotStarts   Operator = "not_starts"
	OpNotEnds     Operator = "not_ends"

	// Custom field conditions only. They take no value.
	OpAssigned    Operator = "assigned"
	OpNotAssigned Operator = "not_assigned"
)

func (o Operator) stringOperator() bool {
	switch o {
	case OpIs, OpIsNot, OpContains, OpNotContains, OpStarts, OpEnds, OpNotStarts, OpNotEnds:
		return true
	}
	return false
}

func (o Operator) customFieldOperator() bool {
	return o.stringOperator() || o == OpAssigned || o == OpNotAssigned
}

// StringFilter matches a name or an email. An empty Operator means OpIs.
type StringFilter struct {
	Operator Operator
	Value    string
}

// Is is shorthand for an exact match.
func Is(value string) *StringFilter {
	return &StringFilter{Operator: OpIs, Value: value}
}

// CustomFieldFilter matches the value of one custom field. Value is ignored
// for OpAssigned and OpNotAssigned.
type CustomFieldFilter struct {
	CustomFieldID string
	Operator      Operator
	Value         string
}

// SearchOptions narrows SearchAllContacts. All conditions are AND-combined.
type SearchOptions struct {
	// CampaignIDs defaults to every campaign of the account.
	CampaignIDs  []string
	Name         *StringFilter
	Email        *StringFilter
	CustomFields []CustomFieldFilter
	// SubscriberTypes defaults to SubscriberTypes.
	SubscriberTypes []SubscriberType
	Page            int
	PerPage         int
	Params          Params
}

// SearchContactsRequest is the body of an unsaved contact search.
type SearchContactsRequest struct {
	SubscribersType      []SubscriberType `json:"subscribersType"`
	SectionLogicOperator string           `json:"sectionLogicOperator"`
	Section              []SearchSection  `json:"section"`
}

type SearchSection struct {
	CampaignIDsList  []string          `json:"campaignIdsList"`
	LogicOperator    string            `json:"logicOperator"`
	SubscriberCycle  []string          `json:"subscriberCycle"`
	SubscriptionDate string            `json:"subscriptionDate"`
	Conditions       []SearchCondition `json:"conditions"`
}

type SearchCondition struct {
	ConditionType string   `json:"conditionType"`
	OperatorType  string   `json:"operatorType"`
	Operator      Operator `json:"operator"`
	Scope         string   `json:"scope,omitempty"`
	Value         *string  `json:"value,omitempty"`
}

const defaultSearchPerPage = 100

var allSubscriberCycles = []string{"receiving_autoresponder", "not_receiving_autoresponder"}

// SearchContacts runs an unsaved contact search, every page unless opts.Page
// is set. Without a page size it asks for 100 contacts per page.
func (c *Client) SearchContacts(ctx context.Context, req SearchContactsRequest, opts ListOptions) ([]Contact, error) {
	t, err := subscriberTypeFrom(req)
	if err != nil {
		return nil, err
	}
	if opts.PerPage == 0 {
		if _, ok := opts.Params["perPage"]; !ok {
			opts.PerPage = defaultSearchPerPage
		}
	}

	m := contactMapping(t)
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]Contact, error) {
		return fetchPage(ctx, c, m, http.MethodPost, "/search-contacts/contacts", params, req)
	})
}

// SearchAllContacts returns the contacts of every requested subscriber type,
// one search per type, in subscriber type order. The listing routes only
// return subscribed contacts.
func (c *Client) SearchAllContacts(ctx context.Context, opts SearchOptions) ([]Contact, error) {
	types := opts.SubscriberTypes
	if len(types) == 0 {
		types = SubscriberTypes
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSubscriberType, t)
		}
	}

	conditions, err := searchConditions(opts)
	if err != nil {
		return nil, err
	}

	paging := ListOptions{Page: opts.Page, PerPage: opts.PerPage, Params: opts.Params}
	if _, _, err := resolvePaging(paging); err != nil {
		return nil, err
	}

	campaignIDs := opts.CampaignIDs
	if len(campaignIDs) == 0 {
		campaigns, err := c.GetCampaigns(ctx, ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list campaigns: %w", err)
		}
		for _, campaign := range campaigns {
			campaignIDs = append(campaignIDs, campaign.ID)
		}
		if len(campaignIDs) == 0 {
			c.logger.Info("No campaigns to search")
			return []Contact{}, nil
		}
	}

	all := []Contact{}
	for _, t := range types {
		req := SearchContactsRequest{
			SubscribersType:      []SubscriberType{t},
			SectionLogicOperator: "or",
			Section: []SearchSection{{
				CampaignIDsList:  campaignIDs,
				LogicOperator:    "and",
				SubscriberCycle:  allSubscriberCycles,
				SubscriptionDate: "all_time",
				Conditions:       conditions,
			}},
		}
		contacts, err := c.SearchContacts(ctx, req, paging)
		if err != nil {
			return nil, fmt.Errorf("search %s contacts: %w", t, err)
		}
		c.logger.Debug("Searched contacts",
			zap.String("subscriber_type", string(t)),
			zap.Int("count", len(contacts)))
		all = append(all, contacts...)
	}
	return all, nil
}

func searchConditions(opts SearchOptions) ([]SearchCondition, error) {
	conditions := []SearchCondition{}

	for _, f := range []struct {
		conditionType string
		filter        *StringFilter
	}{
		{"name", opts.Name},
		{"email", opts.Email},
	} {
		if f.filter == nil {
			continue
		}
		op := f.filter.Operator
		if op == "" {
			op = OpIs
		}
		if !op.stringOperator() {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidOperator, op, f.conditionType)
		}
		value := f.filter.Value
		conditions = append(conditions, SearchCondition{
			ConditionType: f.conditionType,
			OperatorType:  "string_operator",
			Operator:      op,
			Value:         &value,
		})
	}

	for _, f := range opts.CustomFields {
		if !f.Operator.customFieldOperator() {
			return nil, fmt.Errorf("%w: %q for custom field %s", ErrInvalidOperator, f.Operator, f.CustomFieldID)
		}
		cond := SearchCondition{
			ConditionType: "custom",
			Scope:         f.CustomFieldID,
			OperatorType:  "string_operator_list",
			Operator:      f.Operator,
		}
		if f.Operator != OpAssigned && f.Operator != OpNotAssigned {
			value := f.Value
			cond.Value = &value
		}
		conditions = append(conditions, cond)
	}

	return conditions, nil
}
