package getresponse

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Account is the account the API key belongs to.
type Account struct {
	ID                string
	FirstName         Opt[string]
	LastName          Opt[string]
	Email             Opt[string]
	Phone             Opt[string]
	CompanyName       Opt[string]
	State             Opt[string]
	City              Opt[string]
	ZipCode           Opt[string]
	CountryCode       Opt[any]
	IndustryTag       Opt[any]
	NumberOfEmployees Opt[string]
	TimeFormat        Opt[string]
	Href              Opt[string]
	Raw               map[string]any
}

// Name joins first and last name. Missing parts render empty.
func (a Account) Name() string {
	return strings.TrimSpace(a.FirstName.Value + " " + a.LastName.Value)
}

var accountMapping = &mapping[Account]{
	entity: "account",
	idKey:  "accountId",
	init: func(id string, raw map[string]any) Account {
		return Account{ID: id, Raw: raw}
	},
	fields: []field[Account]{
		optional("firstName", func(a *Account) *Opt[string] { return &a.FirstName }),
		optional("lastName", func(a *Account) *Opt[string] { return &a.LastName }),
		optional("email", func(a *Account) *Opt[string] { return &a.Email }),
		optional("phone", func(a *Account) *Opt[string] { return &a.Phone }),
		optional("companyName", func(a *Account) *Opt[string] { return &a.CompanyName }),
		optional("state", func(a *Account) *Opt[string] { return &a.State }),
		optional("city", func(a *Account) *Opt[string] { return &a.City }),
		optional("zipCode", func(a *Account) *Opt[string] { return &a.ZipCode }),
		optional("countryCode", func(a *Account) *Opt[any] { return &a.CountryCode }),
		optional("industryTag", func(a *Account) *Opt[any] { return &a.IndustryTag }),
		optional("numberOfEmployees", func(a *Account) *Opt[string] { return &a.NumberOfEmployees }),
		optional("timeFormat", func(a *Account) *Opt[string] { return &a.TimeFormat }),
		optional("href", func(a *Account) *Opt[string] { return &a.Href }),
	},
}

// NewAccount builds an Account from a decoded payload.
func NewAccount(raw map[string]any) (Account, error) {
	return accountMapping.one(raw, zap.NewNop())
}

// Accounts returns the account the API key belongs to.
func (c *Client) Accounts(ctx context.Context, params Params) (*Result[Account], error) {
	return single(ctx, c, accountMapping, http.MethodGet, "/accounts", params, nil)
}

// Ping reports whether the API accepts the configured key. Authentication
// failures give false; any other failure is returned.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	_, err := c.Accounts(ctx, nil)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.HTTPStatus == http.StatusUnauthorized || apiErr.HTTPStatus == http.StatusForbidden) {
		return false, nil
	}
	return false, err
}
