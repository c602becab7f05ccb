// Package info provides read-only queries against the Hyperliquid /info
// endpoint. Only the spot-deploy surface is covered here.
package info

import (
	"context"
	"strings"
	"time"

	"github.com/banky/go-hyperdeploy/rest"
	"github.com/ethereum/go-ethereum/common"
)

// Info provides access to spot-deploy state via the REST API
type Info struct {
	rest rest.ClientInterface
}

// Config for initializing the Info client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new Info client
func New(cfg Config) *Info {
	client := rest.New(rest.Config{
		BaseUrl: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})

	return &Info{
		rest: client,
	}
}

// NewWithClient creates an Info client around an existing REST client.
func NewWithClient(client rest.ClientInterface) *Info {
	return &Info{rest: client}
}

// SpotDeployAuctionStatus retrieves a fresh snapshot of the deploy gas
// auction for the given deployer address. Each call observes, never mutates.
func (i *Info) SpotDeployAuctionStatus(
	ctx context.Context,
	user common.Address,
) (*SpotDeployState, error) {
	var result SpotDeployState
	err := i.rest.Post(
		ctx,
		"/info",
		map[string]any{
			"type": "spotDeployState",
			"user": strings.ToLower(user.Hex()),
		},
		&result,
	)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
