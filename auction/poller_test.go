package auction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/banky/go-hyperdeploy/info"
	"github.com/banky/go-hyperdeploy/types"
	"github.com/ethereum/go-ethereum/common"
)

// fakeClock advances instantly and records every sleep it was asked for.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// scriptedStatus returns one snapshot per call, in order.
type scriptedStatus struct {
	snapshots []info.GasAuction
	calls     int
}

func (s *scriptedStatus) SpotDeployAuctionStatus(
	ctx context.Context,
	user common.Address,
) (*info.SpotDeployState, error) {
	if s.calls >= len(s.snapshots) {
		return nil, errors.New("script exhausted")
	}
	snap := s.snapshots[s.calls]
	s.calls++
	return &info.SpotDeployState{GasAuction: snap}, nil
}

func gas(v float64) *types.FloatString {
	f := types.FloatString(v)
	return &f
}

func startAt(sec int64) *int64 {
	return &sec
}

func newTestPoller(t *testing.T, status StatusClient, clock Clock, maxGasWei int64) *Poller {
	t.Helper()
	p, err := New(Config{
		Status:    status,
		MaxGasWei: maxGasWei,
		Interval:  5 * time.Second,
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("failed to create poller: %v", err)
	}
	return p
}

func TestAwaitReadyAtFirstAcceptableSnapshot(t *testing.T) {
	// 14500000000000000 wei = 14500 HYPE
	const maxGasWei = 14500000000000000

	status := &scriptedStatus{snapshots: []info.GasAuction{
		{CurrentGas: gas(20000.0)},
		{CurrentGas: gas(15000.0)},
		{CurrentGas: gas(14500.0)}, // at the ceiling: bids
		{CurrentGas: gas(10.0)},    // must never be reached
	}}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := newTestPoller(t, status, clock, maxGasWei)

	snap, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.calls != 3 {
		t.Errorf("expected Ready at third snapshot, got %d calls", status.calls)
	}
	if snap.CurrentGas.Raw() != 14500.0 {
		t.Errorf("Ready snapshot gas = %v, want 14500", snap.CurrentGas.Raw())
	}
	if p.State() != Ready {
		t.Errorf("state = %v, want ready", p.State())
	}
	if len(clock.sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(clock.sleeps))
	}
	for _, d := range clock.sleeps {
		if d != 5*time.Second {
			t.Errorf("price-too-high sleep = %v, want 5s", d)
		}
	}
}

func TestAwaitReadyImmediately(t *testing.T) {
	// Scenario from the deploy docs: 12000 HYPE current, 14500 HYPE ceiling.
	status := &scriptedStatus{snapshots: []info.GasAuction{
		{CurrentGas: gas(12000.0)},
	}}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := newTestPoller(t, status, clock, 14500000000000000)

	snap, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.calls != 1 {
		t.Errorf("expected a single poll, got %d", status.calls)
	}
	if snap.CurrentGas.Raw() != 12000.0 {
		t.Errorf("snapshot gas = %v, want 12000", snap.CurrentGas.Raw())
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", clock.sleeps)
	}
}

func TestAwaitExpired(t *testing.T) {
	status := &scriptedStatus{snapshots: []info.GasAuction{
		{}, // no current gas, no start time
	}}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := newTestPoller(t, status, clock, 1000)

	_, err := p.Await(context.Background())
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if p.State() != Expired {
		t.Errorf("state = %v, want expired", p.State())
	}
}

func TestAwaitSleepsOnlyUntilKnownStart(t *testing.T) {
	base := time.Unix(1700000000, 0)

	status := &scriptedStatus{snapshots: []info.GasAuction{
		{StartTimeSeconds: startAt(base.Unix() + 2)}, // starts in 2s < 5s interval
		{CurrentGas: gas(100.0)},
	}}
	clock := &fakeClock{now: base}
	p := newTestPoller(t, status, clock, 200000000000000)

	if _, err := p.Await(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(clock.sleeps) != 1 {
		t.Fatalf("expected 1 sleep, got %d", len(clock.sleeps))
	}
	if clock.sleeps[0] != 2*time.Second {
		t.Errorf("sleep = %v, want 2s (clamped to start time)", clock.sleeps[0])
	}
}

func TestAwaitRepollsWhenStartPassedButPriceUnobservable(t *testing.T) {
	base := time.Unix(1700000000, 0)

	status := &scriptedStatus{snapshots: []info.GasAuction{
		{StartTimeSeconds: startAt(base.Unix() - 10)}, // started, no price yet
		{StartTimeSeconds: startAt(base.Unix() - 10), CurrentGas: gas(50.0)},
	}}
	clock := &fakeClock{now: base}
	p := newTestPoller(t, status, clock, 100000000000000)

	snap, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.CurrentGas == nil || snap.CurrentGas.Raw() != 50.0 {
		t.Errorf("unexpected ready snapshot: %+v", snap)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 5*time.Second {
		t.Errorf("expected one full-interval sleep, got %v", clock.sleeps)
	}
}

func TestAwaitCancelledBetweenPolls(t *testing.T) {
	status := &scriptedStatus{snapshots: []info.GasAuction{
		{CurrentGas: gas(10000.0)},
	}}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := newTestPoller(t, status, clock, 1000) // ceiling far below price

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Await(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAwaitStatusError(t *testing.T) {
	status := &scriptedStatus{} // first call fails: script exhausted
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := newTestPoller(t, status, clock, 1000)

	if _, err := p.Await(context.Background()); err == nil {
		t.Fatal("expected error from failing status query")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{MaxGasWei: 1}); err == nil {
		t.Error("expected error for missing status client")
	}

	if _, err := New(Config{Status: &scriptedStatus{}, MaxGasWei: 0}); err == nil {
		t.Error("expected error for non-positive max gas")
	}
}
