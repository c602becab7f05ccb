package exchange

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/samber/mo"
	"github.com/vmihailenco/msgpack/v5"
)

// signL1Action signs an action using EIP-712 typed data signing
// This implements the L1 action signing mechanism used by Hyperliquid
func signL1Action(
	a action,
	nonce uint64,
	key *ecdsa.PrivateKey,
	vaultAddress mo.Option[common.Address],
	expiresAfter mo.Option[time.Duration],
	isMainnet bool,
) (signature, error) {
	actionHash, err := hashAction(a, vaultAddress, nonce, expiresAfter)
	if err != nil {
		return signature{}, fmt.Errorf("failed to create action hash: %w", err)
	}

	phantomAgent := constructPhantomAgent(actionHash, isMainnet)
	typedData := l1Payload(phantomAgent)

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return signature{}, fmt.Errorf(
			"failed generating hash for typed data: %w",
			err,
		)
	}

	return signHash(common.BytesToHash(hash), key)
}

// encodeAction produces the canonical msgpack byte form of an action. The
// remote API recomputes the action hash from its own encoding, which packs
// integers at their smallest width; struct field order and integer width must
// both match it exactly or the signature will not verify.
func encodeAction(a action) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)

	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("failed to marshal action: %w", err)
	}

	return buf.Bytes(), nil
}

// hashAction creates a Keccak256 hash of the action following the Hyperliquid
// protocol.
func hashAction(
	a action,
	vaultAddress mo.Option[common.Address],
	nonce uint64,
	expiresAfter mo.Option[time.Duration],
) (common.Hash, error) {
	data, err := encodeAction(a)
	if err != nil {
		return common.Hash{}, err
	}

	nonceBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBytes, nonce)
	data = append(data, nonceBytes...)

	if v, ok := vaultAddress.Get(); ok {
		data = append(data, 0x01)
		data = append(data, v.Bytes()...)
	} else {
		data = append(data, 0x00)
	}

	if e, ok := expiresAfter.Get(); ok {
		data = append(data, 0x00)
		eBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(eBytes, uint64(e.Milliseconds()))
		data = append(data, eBytes...)
	}

	return crypto.Keccak256Hash(data), nil
}

// signHash signs a hash using the private key and returns
// a signature
func signHash(hash common.Hash, key *ecdsa.PrivateKey) (signature, error) {
	var out signature

	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return out, fmt.Errorf("failed to sign: %w", err)
	}

	if len(sig) != 65 {
		return out, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// sig = [R || S || V]
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	v := sig[64]

	// Ethereum canonical V = 27 or 28
	if v < 27 {
		v += 27
	}

	out.V = v

	return out, nil
}

func constructPhantomAgent(
	hash common.Hash,
	isMainnet bool,
) apitypes.TypedDataMessage {
	var source string
	if isMainnet {
		source = "a"
	} else {
		source = "b"
	}

	return apitypes.TypedDataMessage{
		"source":       source,
		"connectionId": hash,
	}
}

func l1Payload(
	phantomAgent apitypes.TypedDataMessage,
) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Agent": {
				{Name: "source", Type: "string"},
				{Name: "connectionId", Type: "bytes32"},
			},
		},
		PrimaryType: "Agent",
		Domain: apitypes.TypedDataDomain{
			Name:              "Exchange",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(1337),
			VerifyingContract: "0x0000000000000000000000000000000000000000",
		},
		Message: phantomAgent,
	}
}
