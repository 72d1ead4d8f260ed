package getresponse

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type Tag struct {
	ID    string
	Href  Opt[string]
	Name  Opt[string]
	Color Opt[string]
	Raw   map[string]any
}

type TagInput struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

var tagMapping = &mapping[Tag]{
	entity: "tag",
	idKey:  "tagId",
	init: func(id string, raw map[string]any) Tag {
		return Tag{ID: id, Raw: raw}
	},
	fields: []field[Tag]{
		optional("href", func(t *Tag) *Opt[string] { return &t.Href }),
		optional("name", func(t *Tag) *Opt[string] { return &t.Name }),
		optional("color", func(t *Tag) *Opt[string] { return &t.Color }),
	},
}

// NewTag builds a Tag from a decoded payload.
func NewTag(raw map[string]any) (Tag, error) {
	return tagMapping.one(raw, zap.NewNop())
}

func (c *Client) GetTags(ctx context.Context, opts ListOptions) ([]Tag, error) {
	return paginate(ctx, opts, func(ctx context.Context, params Params) ([]Tag, error) {
		return fetchPage(ctx, c, tagMapping, http.MethodGet, "/tags", params, nil)
	})
}

func (c *Client) GetTag(ctx context.Context, id string, params Params) (*Result[Tag], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, tagMapping, http.MethodGet, "/tags/"+id, params, nil)
}

func (c *Client) CreateTag(ctx context.Context, in TagInput) (*Result[Tag], error) {
	return single(ctx, c, tagMapping, http.MethodPost, "/tags", nil, in)
}

func (c *Client) UpdateTag(ctx context.Context, id string, in TagInput) (*Result[Tag], error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return single(ctx, c, tagMapping, http.MethodPost, "/tags/"+id, nil, in)
}

func (c *Client) DeleteTag(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrMissingID
	}
	return c.remove(ctx, "/tags/"+id, nil)
}
