// Package rest provides core functions for
// network requests to Hyperliquid API endpoints
package rest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/banky/go-hyperdeploy/constants"
	"github.com/go-resty/resty/v2"
)

// DEFAULT_TIMEOUT bounds a single request. Deploy actions are irreversible,
// so a request that outlives this deadline is reported as a timeout rather
// than retried.
const DEFAULT_TIMEOUT = 30 * time.Second

type Client struct {
	baseUrl string
	timeout time.Duration
}

// ClientInterface defines the contract for REST API calls
type ClientInterface interface {
	Post(ctx context.Context, path string, body any, result any) error
	IsMainnet() bool
	NetworkName() string
}

type Config struct {
	// BaseUrl is the base URL for the Hyperliquid API
	// If none is provided, the mainnet url will be used
	BaseUrl string
	// Timeout is the timeout for network requests
	// If none is provided, DEFAULT_TIMEOUT is enforced
	Timeout time.Duration
}

// New creates a new client instance with the
// provided configuration.
func New(c Config) *Client {
	baseUrl := c.BaseUrl
	if baseUrl == "" {
		baseUrl = constants.MAINNET_API_URL
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DEFAULT_TIMEOUT
	}

	return &Client{
		baseUrl: baseUrl,
		timeout: timeout,
	}
}

// IsMainnet reports whether the client targets the mainnet API.
func (c *Client) IsMainnet() bool {
	return c.baseUrl == constants.MAINNET_API_URL
}

// NetworkName returns the chain name used in user-signed actions.
func (c *Client) NetworkName() string {
	if c.IsMainnet() {
		return "Mainnet"
	}
	return "Testnet"
}

// Post sends a POST request to the specified path with the provided body.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body any,
	result any,
) error {
	r := resty.
		New().
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	url := c.baseUrl + path

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(url)

	if err != nil {
		return err
	}

	if err := handleException(resp); err != nil {
		return err
	}

	return nil
}
