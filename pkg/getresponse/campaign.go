package getresponse

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Campaign is a GetResponse list.
type Campaign struct {
	ID                        string
	Href                      Opt[string]
	Name                      Opt[string]
	LanguageCode              Opt[string]
	IsDefault                 Opt[bool]
	CreatedOn                 Opt[time.Time]
	Description               Opt[string]
	Confirmation              Opt[map[string]any]
	Profile                   Opt[map[string]any]
	Postal                    Opt[map[string]any]
	OptinTypes                Opt[map[string]any]
	SubscriptionNotifications Opt[map[string]any]
	Raw                       map[string]any
}

// CampaignInput is the body of a create or update call. Zero fields are not sent.
type CampaignInput struct {
	Name                      string         `json:"name,omitempty"`
	LanguageCode              string         `json:"languageCode,omitempty"`
	IsDefault                 *bool          `json:"isDefault,omitempty"`
	Confirmation              map[string]any `json:"confirmation,omitempty"`
	Profile                   map[string]any `json:"profile,omitempty"`
	Postal                    map[string]any `json:"postal,omitempty"`
	OptinTypes                map[string]any `json:"optinTypes,omitempty"`
	SubscriptionNotifications map[string]any `json:"subscriptionNotifications,omitempty"`
}

var campaignMapping = &mapping[Campaign]{
	entity: "campaign",
	idKey:  "campaignId",
	init: func(id string, raw map[string]any) Campaign {
		return Campaign{ID: id, Raw: raw}
	},
	fields: []field[Campaign]{
		optional("href", func(c *Campaign) *Opt[string] { return &c.Href }),
		optional("name", func(c *Campaign) *Opt[string] { return &c.Name }),
		optional("languageCode", func(c *Campaign) *Opt[string] { return &c.LanguageCode }),
		optional("isDefault", func(c *Campaign) *Opt[bool] { return &c.IsDefault }),
		timestamp("createdOn", func(c *Campaign) *Opt[time.Time] { return &c.CreatedOn }),
		optional("description", func(c *Campaign) *Opt[string] { return &c.Description }),
		optional("confirmation", func(c *Campaign) *Opt[map[string]any] { return &c.Confirmation }),
		optional("profile", func(c *Campaign) *Opt[map[string]any] { return &c.Profile }),
		optional("postal", func(c *Campaign) *Opt[map[string]any] { return &c.Postal }),
		optional("optinTypes", func(c *Campaign) *Opt[map[string]any] { return &c.OptinTypes }),
		optional("subscriptionNotifications", func(c *Campaign) *Opt[map[string]any] { return &c.SubscriptionNotifications }),
	},
}

// NewCampaign builds a Campaign from a decoded payload.
func NewCampaign(raw map[string]any) (Campaign, error) {
	return campaignMapping.one(raw, zap.NewNop())
}

// GetCampaigns lists campaigns, every page unless opts.Page is set.
func (c *Client) GetCampaigns(ctx context.Context, opts ListOptions) ([]Campaign, error) {
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]Campaign, error) {
		return fetchPage(ctx, c, campaignMapping, http.MethodGet, "/campaigns", params, nil)
	})
}

func (c *Client) GetCampaign(ctx context.Context, id string, params Params) (*Result[Campaign], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, campaignMapping, http.MethodGet, "/campaigns/"+id, params, nil)
}

func (c *Client) CreateCampaign(ctx context.Context, in CampaignInput) (*Result[Campaign], error) {
	return single(ctx, c, campaignMapping, http.MethodPost, "/campaigns", nil, in)
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*Result[Campaign], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, campaignMapping, http.MethodPost, "/campaigns/"+id, nil, in)
}

// GetCampaignContacts lists the contacts subscribed to one campaign.
func (c *Client) GetCampaignContacts(ctx context.Context, id string, opts ListOptions) ([]Contact, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	m := contactMapping(Subscribed)
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]Contact, error) {
		return fetchPage(ctx, c, m, http.MethodGet, "/campaigns/"+id+"/contacts", params, nil)
	})
}
