// Package rest provides the http plumbing for the off-chain services the
// filler talks to: the fee configuration endpoint and order signing apis.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/mo"
)

type Client struct {
	baseUrl string
	timeout mo.Option[time.Duration]
	headers map[string]string
	http    *resty.Client
}

// ClientInterface defines the contract for REST API calls
type ClientInterface interface {
	Get(ctx context.Context, path string, query map[string]string, result any) error
	Post(ctx context.Context, path string, body any, result any) error
}

type Config struct {
	// BaseUrl is prepended to every request path
	BaseUrl string
	// Timeout is the timeout for network requests
	// If none is provided, no timeout will be enforced
	Timeout time.Duration
	// Headers are sent with every request, e.g. api keys
	Headers map[string]string
}

// New creates a new client instance with the
// provided configuration.
func New(c Config) (*Client, error) {
	if c.BaseUrl == "" {
		return nil, fmt.Errorf("base url is required")
	}

	var timeout mo.Option[time.Duration]
	if c.Timeout != 0 {
		timeout = mo.Some(c.Timeout)
	}

	client := &Client{
		baseUrl: c.BaseUrl,
		timeout: timeout,
		headers: c.Headers,
		http: resty.
			New().
			SetJSONMarshaler(json.Marshal).
			SetJSONUnmarshaler(json.Unmarshal),
	}

	return client, nil
}

func (c *Client) request(ctx context.Context, result any) (*resty.Request, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if timeout, ok := c.timeout.Get(); ok {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	r := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers).
		ForceContentType("application/json")
	if result != nil {
		r.SetResult(result)
	}
	return r, cancel
}

// Get sends a GET request to path and decodes the JSON response into result
func (c *Client) Get(
	ctx context.Context,
	path string,
	query map[string]string,
	result any,
) error {
	r, cancel := c.request(ctx, result)
	defer cancel()

	resp, err := r.
		SetQueryParams(query).
		Get(c.baseUrl + path)
	if err != nil {
		return err
	}

	return handleException(resp)
}

// Post sends a POST request to the specified path with the provided body.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body any,
	result any,
) error {
	r, cancel := c.request(ctx, result)
	defer cancel()

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseUrl + path)
	if err != nil {
		return err
	}

	return handleException(resp)
}
