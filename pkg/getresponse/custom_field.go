package getresponse

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// CustomField is a custom field definition.
type CustomField struct {
	ID        string
	Href      Opt[string]
	Name      Opt[string]
	Type      Opt[string]
	ValueType Opt[string]
	Format    Opt[string]
	FieldType Opt[string]
	Hidden    Opt[bool]
	Values    Opt[[]string]
	Raw       map[string]any
}

type CustomFieldInput struct {
	Name   string   `json:"name,omitempty"`
	Type   string   `json:"type,omitempty"`
	Hidden *bool    `json:"hidden,omitempty"`
	Values []string `json:"values,omitempty"`
}

var customFieldMapping = &mapping[CustomField]{
	entity: "custom field",
	idKey:  "customFieldId",
	init: func(id string, raw map[string]any) CustomField {
		return CustomField{ID: id, Raw: raw}
	},
	fields: []field[CustomField]{
		optional("href", func(f *CustomField) *Opt[string] { return &f.Href }),
		optional("name", func(f *CustomField) *Opt[string] { return &f.Name }),
		optional("type", func(f *CustomField) *Opt[string] { return &f.Type }),
		optional("valueType", func(f *CustomField) *Opt[string] { return &f.ValueType }),
		optional("format", func(f *CustomField) *Opt[string] { return &f.Format }),
		optional("fieldType", func(f *CustomField) *Opt[string] { return &f.FieldType }),
		optional("hidden", func(f *CustomField) *Opt[bool] { return &f.Hidden }),
		optional("values", func(f *CustomField) *Opt[[]string] { return &f.Values }),
	},
}

// NewCustomField builds a CustomField from a decoded payload.
func NewCustomField(raw map[string]any) (CustomField, error) {
	return customFieldMapping.one(raw, zap.NewNop())
}

func (c *Client) GetCustomFields(ctx context.Context, opts ListOptions) ([]CustomField, error) {
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]CustomField, error) {
		return fetchPage(ctx, c, customFieldMapping, http.MethodGet, "/custom-fields", params, nil)
	})
}

func (c *Client) GetCustomField(ctx context.Context, id string, params Params) (*Result[CustomField], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, customFieldMapping, http.MethodGet, "/custom-fields/"+id, params, nil)
}

func (c *Client) CreateCustomField(ctx context.Context, in CustomFieldInput) (*Result[CustomField], error) {
	return single(ctx, c, customFieldMapping, http.MethodPost, "/custom-fields", nil, in)
}

func (c *Client) UpdateCustomField(ctx context.Context, id string, in CustomFieldInput) (*Result[CustomField], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, customFieldMapping, http.MethodPost, "/custom-fields/"+id, nil, in)
}

func (c *Client) DeleteCustomField(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrMissingID
	}
	return c.remove(ctx, "/custom-fields/"+id, nil)
}
