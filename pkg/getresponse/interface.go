package getresponse

import "context"

// API defines the GetResponse operations offered by Client
type API interface {
	// Accounts retrieves the account the API key belongs to
	Accounts(ctx context.Context, params Params) (*Result[Account], error)

	// Ping checks that the API key is accepted
	Ping(ctx context.Context) (bool, error)

	// GetCampaigns retrieves campaigns, paginated
	GetCampaigns(ctx context.Context, opts ListOptions) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string, params Params) (*Result[Campaign], error)
	CreateCampaign(ctx context.Context, in CampaignInput) (*Result[Campaign], error)
	UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*Result[Campaign], error)

	// GetCampaignContacts retrieves the contacts of one campaign, paginated
	GetCampaignContacts(ctx context.Context, id string, opts ListOptions) ([]Contact, error)

	// GetContacts retrieves subscribed contacts of all campaigns, paginated
	GetContacts(ctx context.Context, opts ListOptions) ([]Contact, error)
	GetContact(ctx context.Context, id string, params Params) (*Result[Contact], error)
	CreateContact(ctx context.Context, in ContactInput) (*Result[Contact], error)
	UpdateContact(ctx context.Context, id string, in ContactInput) (*Result[Contact], error)
	UpsertContactCustomFields(ctx context.Context, id string, values []CustomFieldValueInput) (*Result[any], error)
	UpsertContactTags(ctx context.Context, id string, tags []TagRef) (*Result[any], error)
	DeleteContact(ctx context.Context, id string, params Params) (bool, error)

	// GetCustomFields retrieves custom field definitions, paginated
	GetCustomFields(ctx context.Context, opts ListOptions) ([]CustomField, error)
	GetCustomField(ctx context.Context, id string, params Params) (*Result[CustomField], error)
	CreateCustomField(ctx context.Context, in CustomFieldInput) (*Result[CustomField], error)
	UpdateCustomField(ctx context.Context, id string, in CustomFieldInput) (*Result[CustomField], error)
	DeleteCustomField(ctx context.Context, id string) (bool, error)

	// GetTags retrieves tags, paginated
	GetTags(ctx context.Context, opts ListOptions) ([]Tag, error)
	GetTag(ctx context.Context, id string, params Params) (*Result[Tag], error)
	CreateTag(ctx context.Context, in TagInput) (*Result[Tag], error)
	UpdateTag(ctx context.Context, id string, in TagInput) (*Result[Tag], error)
	DeleteTag(ctx context.Context, id string) (bool, error)

	// SearchContacts runs one unsaved contact search, paginated
	SearchContacts(ctx context.Context, req SearchContactsRequest, opts ListOptions) ([]Contact, error)

	// SearchAllContacts searches contacts of every subscriber type
	SearchAllContacts(ctx context.Context, opts SearchOptions) ([]Contact, error)
}

var _ API = (*Client)(nil)
