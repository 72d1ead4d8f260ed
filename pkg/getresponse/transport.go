package getresponse

//go:generate mockgen -source=transport.go -destination=mocks/transport.go -package=mocks

import (
	"context"
	"net/url"

	httpclient "github.com/natserract/getresponse/pkg/http"
)

// Transport sends a request and returns the status and raw body. A reply with
// an error status is not a transport error.
type Transport interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*httpclient.Response, error)
	Post(ctx context.Context, endpoint string, query url.Values, body interface{}) (*httpclient.Response, error)
	Delete(ctx context.Context, endpoint string, query url.Values) (*httpclient.Response, error)
}

var _ Transport = (*httpclient.Client)(nil)
