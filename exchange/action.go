package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/samber/mo"
	"github.com/vmihailenco/msgpack/v5"
)

// ============================================================================
// Request and Action Interfaces
// ============================================================================

// action is an interface for all action types that can be signed and posted.
// Actions are immutable once built; field order in the wire structs is fixed
// by the remote protocol and feeds directly into the action hash.
type action interface {
	actionType() string
}

// Request is an interface for all request types that can be validated and
// converted to signable actions
type Request interface {
	toAction() (action, error)
}

// ============================================================================
// Storage Slot Selector
// ============================================================================

type storageSlotKind int

const (
	storageSlotUnset storageSlotKind = iota
	storageSlotFirst
	storageSlotCustom
	storageSlotCreateNonce
)

// storageSlotSelector is the method by which a deployed contract proves its
// deployer identity. Wire form is either a bare string or {"create":{"nonce":n}}.
type storageSlotSelector struct {
	kind        storageSlotKind
	createNonce uint64
}

// MarshalJSON encodes the selector in the remote API's wire form
func (s storageSlotSelector) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case storageSlotFirst:
		return json.Marshal("firstStorageSlot")
	case storageSlotCustom:
		return json.Marshal("customStorageSlot")
	case storageSlotCreateNonce:
		return json.Marshal(map[string]map[string]uint64{
			"create": {"nonce": s.createNonce},
		})
	}
	return nil, fmt.Errorf("storage slot selector is unset")
}

var _ msgpack.CustomEncoder = storageSlotSelector{}

// EncodeMsgpack mirrors MarshalJSON so the signed hash and the posted JSON
// describe the same input
func (s storageSlotSelector) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch s.kind {
	case storageSlotFirst:
		return enc.EncodeString("firstStorageSlot")
	case storageSlotCustom:
		return enc.EncodeString("customStorageSlot")
	case storageSlotCreateNonce:
		type createParams struct {
			Nonce uint64 `msgpack:"nonce"`
		}
		type createInput struct {
			Create createParams `msgpack:"create"`
		}
		return enc.Encode(createInput{Create: createParams{Nonce: s.createNonce}})
	}
	return fmt.Errorf("storage slot selector is unset")
}

func (s storageSlotSelector) String() string {
	switch s.kind {
	case storageSlotFirst:
		return "firstStorageSlot"
	case storageSlotCustom:
		return "customStorageSlot"
	case storageSlotCreateNonce:
		return fmt.Sprintf("create(nonce=%d)", s.createNonce)
	}
	return "unset"
}

// ============================================================================
// Finalize EVM Contract Request
// ============================================================================

type finalizeEvmContractRequest struct {
	token       int64
	firstSlot   bool
	customSlot  bool
	createNonce mo.Option[uint64]
}

// FinalizeEvmContractOption selects how the deployed contract proves its
// deployer identity.
type FinalizeEvmContractOption func(*finalizeEvmContractConfig)

type finalizeEvmContractConfig struct {
	firstSlot   bool
	customSlot  bool
	createNonce mo.Option[uint64]
}

// FinalizeEvmContractRequest links a HyperCore spot token to its HyperEVM
// contract. Exactly one storage-slot option must be supplied; the selection
// is validated when the request is converted to an action.
func FinalizeEvmContractRequest(
	token int64,
	opts ...FinalizeEvmContractOption,
) finalizeEvmContractRequest {
	cfg := finalizeEvmContractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return finalizeEvmContractRequest{
		token:       token,
		firstSlot:   cfg.firstSlot,
		customSlot:  cfg.customSlot,
		createNonce: cfg.createNonce,
	}
}

// WithFirstStorageSlot proves deployer identity via the contract's first
// storage slot
func WithFirstStorageSlot() FinalizeEvmContractOption {
	return func(cfg *finalizeEvmContractConfig) {
		cfg.firstSlot = true
	}
}

// WithCustomStorageSlot proves deployer identity via the slot at
// keccak256("HyperCore deployer")
func WithCustomStorageSlot() FinalizeEvmContractOption {
	return func(cfg *finalizeEvmContractConfig) {
		cfg.customSlot = true
	}
}

// WithCreateNonce proves deployer identity via the EOA creation nonce of the
// deployed contract
func WithCreateNonce(nonce uint64) FinalizeEvmContractOption {
	return func(cfg *finalizeEvmContractConfig) {
		cfg.createNonce = mo.Some(nonce)
	}
}

// toAction validates the request and builds a finalizeEvmContractAction
func (f finalizeEvmContractRequest) toAction() (action, error) {
	if f.token < 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("token index must be non-negative, got %d", f.token),
		}
	}

	selected := 0
	selector := storageSlotSelector{}

	if f.firstSlot {
		selected++
		selector = storageSlotSelector{kind: storageSlotFirst}
	}
	if f.customSlot {
		selected++
		selector = storageSlotSelector{kind: storageSlotCustom}
	}
	if nonce, ok := f.createNonce.Get(); ok {
		selected++
		selector = storageSlotSelector{
			kind:        storageSlotCreateNonce,
			createNonce: nonce,
		}
	}

	if selected != 1 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf(
				"exactly one of first storage slot, custom storage slot or create nonce must be selected, got %d",
				selected,
			),
		}
	}

	return finalizeEvmContractAction{
		Type:  "finalizeEvmContract",
		Token: f.token,
		Input: selector,
	}, nil
}

type finalizeEvmContractAction struct {
	Type  string              `json:"type" msgpack:"type"`
	Token int64               `json:"token" msgpack:"token"`
	Input storageSlotSelector `json:"input" msgpack:"input"`
}

func (a finalizeEvmContractAction) actionType() string {
	return a.Type
}

// ============================================================================
// Register Token Request
// ============================================================================

// Decimal precision fields outside this range are a misconfiguration the
// remote API would reject anyway; catching it here avoids a wasted signature.
const maxTokenDecimals = 18

type registerTokenRequest struct {
	name        string
	fullName    string
	szDecimals  int64
	weiDecimals int64
	maxGasWei   int64
}

// RegisterTokenRequest bids for a spot token ticker in the deploy gas
// auction. maxGasWei caps the gas the deployer is willing to pay, denominated
// in wei (1 HYPE = 1e12 wei).
func RegisterTokenRequest(
	name string,
	fullName string,
	szDecimals int64,
	weiDecimals int64,
	maxGasWei int64,
) registerTokenRequest {
	return registerTokenRequest{
		name:        name,
		fullName:    fullName,
		szDecimals:  szDecimals,
		weiDecimals: weiDecimals,
		maxGasWei:   maxGasWei,
	}
}

// toAction validates the request and builds a spotDeployAction
func (r registerTokenRequest) toAction() (action, error) {
	if r.name == "" {
		return nil, &ConfigurationError{Reason: "token name must not be empty"}
	}
	if r.maxGasWei <= 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("max gas must be positive, got %d", r.maxGasWei),
		}
	}
	if r.szDecimals < 0 || r.szDecimals > maxTokenDecimals {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf(
				"size decimals must be in [0, %d], got %d",
				maxTokenDecimals,
				r.szDecimals,
			),
		}
	}
	if r.weiDecimals < 0 || r.weiDecimals > maxTokenDecimals {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf(
				"wei decimals must be in [0, %d], got %d",
				maxTokenDecimals,
				r.weiDecimals,
			),
		}
	}

	return spotDeployAction{
		Type: "spotDeploy",
		RegisterToken2: registerToken2{
			Spec: tokenSpec{
				Name:        r.name,
				SzDecimals:  r.szDecimals,
				WeiDecimals: r.weiDecimals,
			},
			MaxGas:   r.maxGasWei,
			FullName: r.fullName,
		},
	}, nil
}

type tokenSpec struct {
	Name        string `json:"name" msgpack:"name"`
	SzDecimals  int64  `json:"szDecimals" msgpack:"szDecimals"`
	WeiDecimals int64  `json:"weiDecimals" msgpack:"weiDecimals"`
}

type registerToken2 struct {
	Spec     tokenSpec `json:"spec" msgpack:"spec"`
	MaxGas   int64     `json:"maxGas" msgpack:"maxGas"`
	FullName string    `json:"fullName" msgpack:"fullName"`
}

type spotDeployAction struct {
	Type           string         `json:"type" msgpack:"type"`
	RegisterToken2 registerToken2 `json:"registerToken2" msgpack:"registerToken2"`
}

func (a spotDeployAction) actionType() string {
	return a.Type
}
