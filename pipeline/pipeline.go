// Package pipeline composes request building, the optional auction gate,
// signing and submission into a single run with one terminal outcome.
package pipeline

import (
	"context"
	"fmt"

	"github.com/banky/go-hyperdeploy/auction"
	"github.com/banky/go-hyperdeploy/exchange"
	"github.com/banky/go-hyperdeploy/info"
)

// Config for initializing a Pipeline
type Config struct {
	Exchange *exchange.Exchange
	// Poller gates submission on the auction price; nil submits
	// unconditionally
	Poller *auction.Poller
}

// Pipeline runs build -> (gate) -> sign -> submit. Each run owns its own
// payload and poll loop; concurrent runs are independent.
type Pipeline struct {
	exchange *exchange.Exchange
	poller   *auction.Poller
}

// New creates a Pipeline
func New(cfg Config) (*Pipeline, error) {
	if cfg.Exchange == nil {
		return nil, fmt.Errorf("exchange client is required")
	}

	return &Pipeline{
		exchange: cfg.Exchange,
		poller:   cfg.Poller,
	}, nil
}

// Run executes one pipeline pass. Exactly one signing and at most one
// submission occur per invocation, regardless of how many polls preceded it.
// An expired or cancelled gate returns before anything is signed.
func (p *Pipeline) Run(
	ctx context.Context,
	req exchange.Request,
) (*exchange.Result, error) {
	if _, err := p.Gate(ctx); err != nil {
		return nil, err
	}

	return p.exchange.Submit(ctx, req)
}

// Gate waits for the configured auction condition, returning the snapshot
// that satisfied it. With no poller configured it returns immediately.
func (p *Pipeline) Gate(ctx context.Context) (*info.GasAuction, error) {
	if p.poller == nil {
		return nil, nil
	}

	return p.poller.Await(ctx)
}
