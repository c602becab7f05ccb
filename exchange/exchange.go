package exchange

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banky/go-hyperdeploy/constants"
	"github.com/banky/go-hyperdeploy/rest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/mo"
)

// Config for initializing the Exchange client
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	PrivateKey   *ecdsa.PrivateKey
	VaultAddress common.Address
	// DryRun builds and signs payloads but never posts them
	DryRun bool
}

// Exchange signs deploy actions and submits them to the /exchange endpoint.
// At most one submission attempt is made per call; the actions in scope are
// irreversible, so retrying is left to the caller as an explicit decision.
type Exchange struct {
	rest         rest.ClientInterface
	privateKey   *ecdsa.PrivateKey
	vaultAddress mo.Option[common.Address]
	expiresAfter mo.Option[time.Duration]
	dryRun       bool
}

// New creates a new Exchange client
func New(cfg Config) (*Exchange, error) {
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	restClient := rest.New(rest.Config{
		BaseUrl: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})

	var vaultAddress mo.Option[common.Address]
	if cfg.VaultAddress != constants.ZERO_ADDRESS {
		vaultAddress = mo.Some(cfg.VaultAddress)
	}

	return &Exchange{
		rest:         restClient,
		privateKey:   cfg.PrivateKey,
		vaultAddress: vaultAddress,
		expiresAfter: mo.None[time.Duration](),
		dryRun:       cfg.DryRun,
	}, nil
}

// SetExpiresAfter sets the expiration time for actions
func (e *Exchange) SetExpiresAfter(expiresAfter time.Duration) {
	e.expiresAfter = mo.Some(expiresAfter)
}

// ClearExpiresAfter clears the expiration time
func (e *Exchange) ClearExpiresAfter() {
	e.expiresAfter = mo.None[time.Duration]()
}

// IsMainnet reports whether actions are signed for mainnet
func (e *Exchange) IsMainnet() bool {
	return e.rest.IsMainnet()
}

// FinalizeEvmContract submits a finalizeEvmContract action. Irreversible.
func (e *Exchange) FinalizeEvmContract(
	ctx context.Context,
	token int64,
	opts ...FinalizeEvmContractOption,
) (*Result, error) {
	return e.Submit(ctx, FinalizeEvmContractRequest(token, opts...))
}

// RegisterToken submits a spotDeploy/registerToken2 auction bid.
func (e *Exchange) RegisterToken(
	ctx context.Context,
	name string,
	fullName string,
	szDecimals int64,
	weiDecimals int64,
	maxGasWei int64,
) (*Result, error) {
	return e.Submit(ctx, RegisterTokenRequest(
		name,
		fullName,
		szDecimals,
		weiDecimals,
		maxGasWei,
	))
}

// Submit validates the request, signs it with a fresh wall-clock nonce and
// posts it once. Exactly one signing and at most one submission happen per
// call.
func (e *Exchange) Submit(ctx context.Context, req Request) (*Result, error) {
	a, err := req.toAction()
	if err != nil {
		return nil, err
	}

	// Nonce is taken at signing time, not at request-build time, so slow
	// builds cannot reuse a stale timestamp.
	nonce := time.Now().UnixMilli()

	sig, err := signL1Action(
		a,
		uint64(nonce),
		e.privateKey,
		e.vaultAddress,
		e.expiresAfter,
		e.rest.IsMainnet(),
	)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	payload := &SubmissionPayload{
		Action:       a,
		Nonce:        nonce,
		Signature:    sig,
		VaultAddress: e.vaultAddress.ToPointer(),
	}

	if e.dryRun {
		return &Result{Status: StatusDryRun, Payload: payload}, nil
	}

	var resp response[json.RawMessage]
	if err := e.rest.Post(ctx, "/exchange", payload, &resp); err != nil {
		return nil, classifyTransportError(err)
	}

	switch resp.Status {
	case "ok":
		var data json.RawMessage
		if resp.Data != nil {
			data = *resp.Data
		}
		return &Result{
			Status:   StatusAccepted,
			Response: data,
			Payload:  payload,
		}, nil

	case "err":
		return &Result{
			Status:      StatusRejected,
			ErrorDetail: resp.ErrorMessage,
			Payload:     payload,
		}, nil

	default:
		return nil, &TransportError{
			Kind:   TransportUnexpectedResponse,
			Detail: string(resp.Raw),
		}
	}
}
