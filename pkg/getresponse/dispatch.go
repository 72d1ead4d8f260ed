package getresponse

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	httpclient "github.com/natserract/getresponse/pkg/http"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// successStatuses is the 2xx set the API uses for a successful call.
var successStatuses = map[int]bool{
	200: true, 201: true, 202: true, 203: true, 204: true,
	205: true, 206: true, 207: true, 208: true, 226: true,
}

func isSuccess(status int) bool {
	return successStatuses[status]
}

// response is a classified reply. payload holds the decoded JSON body and is
// nil when the reply had no body.
type response struct {
	status  int
	pending bool
	deleted bool
	payload any
}

// dispatch sends one request and classifies the reply. Error statuses become
// an *APIError. A DELETE only reports whether the API answered 204.
func (c *Client) dispatch(ctx context.Context, method, path string, params Params, body any) (*response, error) {
	endpoint, err := httpclient.BuildURL(c.config.BaseURL, path, nil)
	if err != nil {
		return nil, err
	}
	query := params.Values()

	var resp *httpclient.Response
	switch method {
	case http.MethodGet:
		resp, err = c.transport.Get(ctx, endpoint, query)
	case http.MethodPost:
		resp, err = c.transport.Post(ctx, endpoint, query, body)
	case http.MethodDelete:
		resp, err = c.transport.Delete(ctx, endpoint, query)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%s %s: no response", method, path)
	}

	c.logger.Debug("GetResponse call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("query", query.Encode()),
		zap.Int("status_code", resp.StatusCode))

	if method == http.MethodDelete {
		if resp.StatusCode != http.StatusNoContent {
			c.logger.Warn("Delete was not acknowledged",
				zap.String("path", path),
				zap.Int("status_code", resp.StatusCode),
				zap.ByteString("body", resp.Body))
		}
		return &response{status: resp.StatusCode, deleted: resp.StatusCode == http.StatusNoContent}, nil
	}

	if !isSuccess(resp.StatusCode) {
		c.logger.Error("GetResponse call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", resp.Body))
		return nil, parseError(resp.StatusCode, resp.Body)
	}

	if resp.StatusCode == http.StatusAccepted {
		c.logger.Warn("Resource not ready yet, still in creation or update",
			zap.String("method", method),
			zap.String("path", path))
		return &response{status: resp.StatusCode, pending: true}, nil
	}

	out := &response{status: resp.StatusCode}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out.payload); err != nil {
		return nil, fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return out, nil
}

// parseError builds the *APIError for an error reply.
func parseError(status int, body []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("getresponse: http status %d: %w: failed to decode error body: %w", status, ErrRequestFailed, err)
	}

	apiErr := &APIError{}
	if err := decodeValue(payload, apiErr); err != nil {
		return fmt.Errorf("getresponse: http status %d: %w: malformed error body: %w", status, ErrRequestFailed, err)
	}
	if apiErr.HTTPStatus == 0 {
		apiErr.HTTPStatus = status
	}
	apiErr.Kind = kindForCode(apiErr.Code)
	apiErr.Payload = payload
	return apiErr
}

// single performs a call that yields one resource of the given mapping.
func single[E any](ctx context.Context, c *Client, m *mapping[E], method, path string, params Params, body any) (*Result[E], error) {
	resp, err := c.dispatch(ctx, method, path, params, body)
	if err != nil {
		return nil, err
	}
	result := &Result[E]{Status: resp.status, Pending: resp.pending}
	if resp.payload == nil {
		return result, nil
	}
	e, err := m.object(resp.payload, c.logger)
	if err != nil {
		return nil, err
	}
	result.Value = &e
	return result, nil
}

// rawCall performs a call whose decoded body is returned as is.
func rawCall(ctx context.Context, c *Client, method, path string, params Params, body any) (*Result[any], error) {
	resp, err := c.dispatch(ctx, method, path, params, body)
	if err != nil {
		return nil, err
	}
	result := &Result[any]{Status: resp.status, Pending: resp.pending}
	if resp.payload != nil {
		result.Value = &resp.payload
	}
	return result, nil
}

// fetchPage fetches one page of a listing. A pending reply counts as an empty page.
func fetchPage[E any](ctx context.Context, c *Client, m *mapping[E], method, path string, params Params, body any) ([]E, error) {
	resp, err := c.dispatch(ctx, method, path, params, body)
	if err != nil {
		return nil, err
	}
	if resp.payload == nil {
		return nil, nil
	}
	return m.list(resp.payload, c.logger)
}

func (c *Client) remove(ctx context.Context, path string, params Params) (bool, error) {
	resp, err := c.dispatch(ctx, http.MethodDelete, path, params, nil)
	if err != nil {
		return false, err
	}
	return resp.deleted, nil
}
