// Package auction polls the deploy gas auction and decides when a bid at a
// given price ceiling should proceed.
package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banky/go-hyperdeploy/constants"
	"github.com/banky/go-hyperdeploy/info"
	"github.com/ethereum/go-ethereum/common"
)

// DEFAULT_POLL_INTERVAL is how long the poller sleeps between observations
// when no earlier wake-up is known.
const DEFAULT_POLL_INTERVAL = 5 * time.Second

// ErrExpired is returned when the auction has concluded: the snapshot
// reports neither a current gas price nor a start time. Fatal for this run;
// a caller may start a new run for a future auction.
var ErrExpired = errors.New("auction has concluded")

// State of the poll loop. Transitions only ever move forward:
// AwaitingStart -> AwaitingPrice -> Ready, with Expired terminal.
type State int

const (
	AwaitingStart State = iota
	AwaitingPrice
	Ready
	Expired
)

func (s State) String() string {
	switch s {
	case AwaitingStart:
		return "awaiting start"
	case AwaitingPrice:
		return "awaiting price"
	case Ready:
		return "ready"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StatusClient observes the auction. info.Info satisfies this.
type StatusClient interface {
	SpotDeployAuctionStatus(
		ctx context.Context,
		user common.Address,
	) (*info.SpotDeployState, error)
}

// Config for initializing a Poller
type Config struct {
	Status StatusClient
	// User is the deployer address the auction state is queried for
	User common.Address
	// MaxGasWei is the price ceiling in wei (1 HYPE = 1e12 wei)
	MaxGasWei int64
	// Interval between polls; DEFAULT_POLL_INTERVAL if zero
	Interval time.Duration
	// Clock defaults to the system clock
	Clock Clock
}

// Poller drives the auction-gating state machine. Polls only observe remote
// state; re-polling is always safe.
type Poller struct {
	status    StatusClient
	user      common.Address
	maxGasWei int64
	interval  time.Duration
	clock     Clock
	state     State
}

// New creates a Poller
func New(cfg Config) (*Poller, error) {
	if cfg.Status == nil {
		return nil, fmt.Errorf("status client is required")
	}
	if cfg.MaxGasWei <= 0 {
		return nil, fmt.Errorf("max gas must be positive, got %d", cfg.MaxGasWei)
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DEFAULT_POLL_INTERVAL
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}

	return &Poller{
		status:    cfg.Status,
		user:      cfg.User,
		maxGasWei: cfg.MaxGasWei,
		interval:  interval,
		clock:     clock,
		state:     AwaitingStart,
	}, nil
}

// State returns the machine's current state.
func (p *Poller) State() State {
	return p.state
}

// Await polls until the auction price is at or below the configured ceiling,
// then returns the snapshot that satisfied it. The Ready decision is always
// computed from the same snapshot that drove the transition; every wake-up
// re-polls before re-deciding. Cancellation is checked between polls, never
// mid-flight.
func (p *Poller) Await(ctx context.Context) (*info.GasAuction, error) {
	for {
		state, err := p.status.SpotDeployAuctionStatus(ctx, p.user)
		if err != nil {
			return nil, fmt.Errorf("auction status query failed: %w", err)
		}

		snapshot := state.GasAuction
		next, wait := p.advance(snapshot, p.clock.Now())
		p.state = next

		switch next {
		case Ready:
			return &snapshot, nil
		case Expired:
			return nil, ErrExpired
		}

		if err := p.clock.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// advance computes the next state and, for non-terminal states, how long to
// sleep before the next poll. A known future start time clamps the sleep so
// the poller never oversleeps past the auction opening.
func (p *Poller) advance(g info.GasAuction, now time.Time) (State, time.Duration) {
	if g.CurrentGas != nil {
		if g.CurrentGas.Raw()*constants.WEI_PER_HYPE <= float64(p.maxGasWei) {
			return Ready, 0
		}
		return AwaitingPrice, p.interval
	}

	if g.StartTimeSeconds != nil {
		start := time.Unix(*g.StartTimeSeconds, 0)
		if until := start.Sub(now); until > 0 && until < p.interval {
			return AwaitingStart, until
		}
		// Start time passed with no price yet: not observable, re-poll.
		return AwaitingStart, p.interval
	}

	return Expired, 0
}

// MaxGasHype is the configured ceiling expressed in HYPE, for display.
func (p *Poller) MaxGasHype() float64 {
	return float64(p.maxGasWei) / constants.WEI_PER_HYPE
}
