package getresponse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Contact is a subscriber of a campaign.
//
// SubscriberType is not part of any payload. Listing routes only return
// subscribed contacts; search replies take it from the subscribersType the
// search asked for.
type Contact struct {
	ID                string
	Href              Opt[string]
	Name              Opt[string]
	Email             Opt[string]
	Note              Opt[string]
	DayOfCycle        Opt[int]
	Origin            Opt[string]
	CreatedOn         Opt[time.Time]
	ChangedOn         Opt[time.Time]
	Campaign          Opt[Campaign]
	TimeZone          Opt[string]
	IPAddress         Opt[string]
	Activities        Opt[string]
	Scoring           Opt[float64]
	CustomFieldValues Opt[[]CustomFieldValue]
	Tags              Opt[[]ContactTag]
	EngagementScore   Opt[int]
	SubscriberType    SubscriberType
	Raw               map[string]any
}

// CustomFieldValue is a custom field as assigned to a contact.
type CustomFieldValue struct {
	CustomFieldID string   `json:"customFieldId"`
	Name          string   `json:"name"`
	Value         []string `json:"value"`
	Values        []string `json:"values"`
	Type          string   `json:"type"`
	FieldType     string   `json:"fieldType"`
	ValueType     string   `json:"valueType"`
	Href          string   `json:"href"`
}

// ContactTag is a tag as assigned to a contact.
type ContactTag struct {
	TagID string `json:"tagId"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Href  string `json:"href"`
}

type CampaignRef struct {
	CampaignID string `json:"campaignId"`
}

type CustomFieldValueInput struct {
	CustomFieldID string   `json:"customFieldId"`
	Value         []string `json:"value"`
}

type TagRef struct {
	TagID string `json:"tagId"`
}

// ContactInput is the body of a create or update call. Zero fields are not sent.
type ContactInput struct {
	Name              string                  `json:"name,omitempty"`
	Email             string                  `json:"email,omitempty"`
	Campaign          *CampaignRef            `json:"campaign,omitempty"`
	DayOfCycle        *int                    `json:"dayOfCycle,omitempty"`
	Scoring           *float64                `json:"scoring,omitempty"`
	IPAddress         string                  `json:"ipAddress,omitempty"`
	Note              string                  `json:"note,omitempty"`
	CustomFieldValues []CustomFieldValueInput `json:"customFieldValues,omitempty"`
	Tags              []TagRef                `json:"tags,omitempty"`
}

var contactFields = []field[Contact]{
	optional("href", func(c *Contact) *Opt[string] { return &c.Href }),
	optional("name", func(c *Contact) *Opt[string] { return &c.Name }),
	optional("email", func(c *Contact) *Opt[string] { return &c.Email }),
	optional("note", func(c *Contact) *Opt[string] { return &c.Note }),
	integer("dayOfCycle", func(c *Contact) *Opt[int] { return &c.DayOfCycle }),
	optional("origin", func(c *Contact) *Opt[string] { return &c.Origin }),
	timestamp("createdOn", func(c *Contact) *Opt[time.Time] { return &c.CreatedOn }),
	timestamp("changedOn", func(c *Contact) *Opt[time.Time] { return &c.ChangedOn }),
	nested("campaign", func(c *Contact) *Opt[Campaign] { return &c.Campaign }, campaignMapping.object),
	optional("timeZone", func(c *Contact) *Opt[string] { return &c.TimeZone }),
	optional("ipAddress", func(c *Contact) *Opt[string] { return &c.IPAddress }),
	optional("activities", func(c *Contact) *Opt[string] { return &c.Activities }),
	optional("scoring", func(c *Contact) *Opt[float64] { return &c.Scoring }),
	optional("customFieldValues", func(c *Contact) *Opt[[]CustomFieldValue] { return &c.CustomFieldValues }),
	optional("tags", func(c *Contact) *Opt[[]ContactTag] { return &c.Tags }),
	integer("engagementScore", func(c *Contact) *Opt[int] { return &c.EngagementScore }),
}

// contactMapping returns the contact mapping for replies to a request made
// for subscriber type t.
func contactMapping(t SubscriberType) *mapping[Contact] {
	return &mapping[Contact]{
		entity: "contact",
		idKey:  "contactId",
		init: func(id string, raw map[string]any) Contact {
			return Contact{ID: id, SubscriberType: t, Raw: raw}
		},
		fields: contactFields,
	}
}

// NewContact builds a Contact from a decoded payload. requestBody is the body
// of the request that produced it, if any; the first of its subscribersType
// sets SubscriberType, which otherwise defaults to subscribed.
func NewContact(raw map[string]any, requestBody any) (Contact, error) {
	t, err := subscriberTypeFrom(requestBody)
	if err != nil {
		return Contact{}, err
	}
	return contactMapping(t).one(raw, zap.NewNop())
}

func subscriberTypeFrom(body any) (SubscriberType, error) {
	var types []SubscriberType
	switch b := body.(type) {
	case SearchContactsRequest:
		types = b.SubscribersType
	case *SearchContactsRequest:
		if b != nil {
			types = b.SubscribersType
		}
	case map[string]any:
		var decoded struct {
			SubscribersType []SubscriberType `json:"subscribersType"`
		}
		if err := decodeValue(b, &decoded); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSubscriberType, err)
		}
		types = decoded.SubscribersType
	}
	if len(types) == 0 {
		return Subscribed, nil
	}
	if !types[0].Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubscriberType, types[0])
	}
	return types[0], nil
}

// GetContacts lists subscribed contacts of every campaign.
func (c *Client) GetContacts(ctx context.Context, opts ListOptions) ([]Contact, error) {
	m := contactMapping(Subscribed)
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]Contact, error) {
		return fetchPage(ctx, c, m, http.MethodGet, "/contacts", params, nil)
	})
}

func (c *Client) GetContact(ctx context.Context, id string, params Params) (*Result[Contact], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, contactMapping(Subscribed), http.MethodGet, "/contacts/"+id, params, nil)
}

// CreateContact adds a contact to a campaign. The API usually queues the
// creation, in which case the result is pending.
func (c *Client) CreateContact(ctx context.Context, in ContactInput) (*Result[Contact], error) {
	return single(ctx, c, contactMapping(Subscribed), http.MethodPost, "/contacts", nil, in)
}

func (c *Client) UpdateContact(ctx context.Context, id string, in ContactInput) (*Result[Contact], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, contactMapping(Subscribed), http.MethodPost, "/contacts/"+id, nil, in)
}

// UpsertContactCustomFields adds or updates custom field values of a contact.
// Fields not named are left assigned. The reply is returned undecoded.
func (c *Client) UpsertContactCustomFields(ctx context.Context, id string, values []CustomFieldValueInput) (*Result[any], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	body := map[string]any{"customFieldValues": values}
	return rawCall(ctx, c, http.MethodPost, "/contacts/"+id+"/custom-fields", nil, body)
}

// UpsertContactTags adds tags to a contact without removing the others.
// The reply is returned undecoded.
func (c *Client) UpsertContactTags(ctx context.Context, id string, tags []TagRef) (*Result[any], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	body := map[string]any{"tags": tags}
	return rawCall(ctx, c, http.MethodPost, "/contacts/"+id+"/tags", nil, body)
}

// DeleteContact removes a contact. params may carry messageId and ipAddress.
// It returns true only when the API acknowledged the deletion with 204.
func (c *Client) DeleteContact(ctx context.Context, id string, params Params) (bool, error) {
	if id == "" {
		return false, ErrMissingID
	}
	return c.remove(ctx, "/contacts/"+id, params)
}
