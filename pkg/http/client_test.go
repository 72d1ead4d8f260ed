package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(opts Options) *Client {
	return NewClientWithLogger(opts, zap.NewNop())
}

func TestClient_AttachesDefaultHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "api-key secret", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, "acme.example", r.Header.Get("X-Domain"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := testClient(Options{Headers: map[string]string{
		"X-Auth-Token": "api-key secret",
		"X-Domain":     "acme.example",
	}})

	resp, err := c.Get(context.Background(), ts.URL+"/accounts", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{}`, string(resp.Body))
}

func TestClient_PostSendsJSONAndQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("perPage"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Max"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer ts.Close()

	c := testClient(Options{})
	query := url.Values{"page": {"2"}, "perPage": {"50"}}
	resp, err := c.Post(context.Background(), ts.URL+"/search", query, map[string]string{"name": "Max"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_ErrorStatusIsReturnedNotRaised(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"code":1,"message":"boom"}`)
	}))
	defer ts.Close()

	c := testClient(Options{})
	resp, err := c.Delete(context.Background(), ts.URL+"/tags/x", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "retries are off by default")
}

func TestClient_RetriesServerErrorsWhenEnabled(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	c := testClient(Options{MaxRetries: 3})
	resp, err := c.Do(RequestOptions{
		Method:          http.MethodGet,
		URL:             ts.URL,
		Context:         context.Background(),
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_RetriesThrottledRequests(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"code":1,"message":"throttled"}`)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := testClient(Options{MaxRetries: 2})
	resp, err := c.Do(RequestOptions{
		Method:          http.MethodGet,
		URL:             ts.URL,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ExhaustedRetriesKeepLastResponse(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"code":1,"message":"down"}`)
	}))
	defer ts.Close()

	c := testClient(Options{MaxRetries: 1})
	resp, err := c.Do(RequestOptions{
		Method:          http.MethodGet,
		URL:             ts.URL,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "down")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		query   url.Values
		want    string
		wantErr bool
	}{
		{name: "keeps version prefix", base: "https://api.getresponse.com/v3", path: "/contacts", want: "https://api.getresponse.com/v3/contacts"},
		{name: "trailing slash", base: "https://api.getresponse.com/v3/", path: "tags/abc", want: "https://api.getresponse.com/v3/tags/abc"},
		{name: "with query", base: "https://h/v3", path: "/tags", query: url.Values{"page": {"1"}}, want: "https://h/v3/tags?page=1"},
		{name: "relative base", base: "/v3", path: "/tags", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildURL(tc.base, tc.path, tc.query)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
