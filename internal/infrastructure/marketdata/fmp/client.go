package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finance-agent/internal/domain/entity"
)

const (
	baseURL         = "https://financialmodelingprep.com/api/v3"
	maxResponseSize = 8 << 20
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=fmp_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Financial Modeling Prep REST API and normalizes its
// payloads into the records handed to the model.
type Client struct {
	// baseURL is the base URL for the API, without trailing slash.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// apiKey is sent as the apikey query parameter.
	apiKey string
	// now is the clock used for history date ranges.
	now func() time.Time
}

// ClientOption is a configuration option for the FMP client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new FMP client. An empty key is accepted so the process
// can start; every data call then fails with entity.ErrMissingAPIKey.
func NewClient(key string, options ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		apiKey:     key,
		now:        time.Now,
	}
	for _, option := range options {
		option(client)
	}
	if _, err := url.Parse(client.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return client, nil
}

// get performs GET {baseURL}/{path}?{query}&apikey=... and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return entity.ErrMissingAPIKey
	}

	res, err := c.do(ctx, path, query)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", entity.ErrUpstream, err)
	}

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: check the API key or endpoint access (status %d)", entity.ErrAccessDenied, res.StatusCode)

	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: daily quota or request rate exceeded", entity.ErrRateLimited)

	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", entity.ErrNotFound, path)

	default:
		return fmt.Errorf("%w: unexpected status code: %d", entity.ErrUpstream, res.StatusCode)
	}

	if msg := providerError(body); msg != "" {
		if strings.Contains(strings.ToLower(msg), "limit reach") {
			return fmt.Errorf("%w: %s", entity.ErrRateLimited, msg)
		}
		return fmt.Errorf("%w: %s", entity.ErrUpstream, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", entity.ErrUpstream, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("apikey", c.apiKey)

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", entity.ErrUpstream, redact(err))
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %w", entity.ErrUpstream, redact(err))
	}
	return res, nil
}

// providerError extracts {"Error Message": "..."} payloads FMP sends with status 200.
func providerError(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var payload struct {
		ErrorMessage string `json:"Error Message"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	if payload.ErrorMessage != "" {
		return payload.ErrorMessage
	}
	return payload.Error
}

// redact drops the request URL from transport errors; it carries the API key.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
