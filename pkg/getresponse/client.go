// Package getresponse provides a client for the GetResponse v3 REST API.
//
// GetResponse is an email marketing platform. Its API exposes the account the
// key belongs to, campaigns (mailing lists), contacts subscribed to those
// campaigns, custom field definitions and tags.
//
// Replies are mapped into typed values (Account, Campaign, Contact,
// CustomField, Tag). Every optional attribute is an Opt, and the payload a
// value was built from is kept in its Raw field. List endpoints are paginated
// transparently, and SearchAllContacts runs one contact search per subscriber
// type so that contacts which are not "subscribed" are returned as well.
//
// Calls are synchronous: pages and subscriber types are fetched one after
// the other over a single session.
package getresponse

import (
	"fmt"

	"github.com/natserract/getresponse/pkg/config"
	httpclient "github.com/natserract/getresponse/pkg/http"
	"go.uber.org/zap"
)

// Client is the main client for interacting with the GetResponse API
type Client struct {
	config    *config.Config
	transport Transport
	logger    *zap.Logger
}

// New creates a new Client with default production logger
func New(cfg *config.Config) (*Client, error) {
	logger, _ := zap.NewProduction()
	return NewWithLogger(cfg, logger)
}

// NewWithLogger creates a new Client with a custom logger
func NewWithLogger(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	transport := httpclient.NewClientWithLogger(httpclient.Options{
		Timeout:    cfg.Timeout,
		Headers:    cfg.Headers(),
		MaxRetries: cfg.MaxRetries,
	}, logger)
	return NewWithTransport(cfg, transport, logger), nil
}

// NewWithTransport creates a Client that sends its requests through transport.
// The transport is expected to attach the authentication headers itself.
func NewWithTransport(cfg *config.Config, transport Transport, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:    cfg,
		transport: transport,
		logger:    logger,
	}
}
