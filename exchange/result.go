package exchange

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the terminal disposition of one submission pipeline run.
type Status string

const (
	// StatusAccepted means the remote API accepted the action.
	StatusAccepted Status = "accepted"
	// StatusRejected means the remote API understood the action and
	// declined it; ErrorDetail carries the remote's reason verbatim.
	StatusRejected Status = "rejected"
	// StatusDryRun means the payload was built and signed but never sent.
	StatusDryRun Status = "dryRun"
)

// SubmissionPayload is exactly what crosses the wire. It is built once per
// run and never mutated after construction.
type SubmissionPayload struct {
	Action       action          `json:"action"`
	Nonce        int64           `json:"nonce"`
	Signature    signature       `json:"signature"`
	VaultAddress *common.Address `json:"vaultAddress"`
}

// Result is the single terminal outcome of a run that produced a response
// (or, for a dry run, would have). Transport-level failures are returned as
// *TransportError instead, so callers can never confuse a timeout with a
// rejection.
type Result struct {
	Status Status
	// Response is the remote payload on acceptance, opaque to this client.
	Response json.RawMessage
	// ErrorDetail is the remote's rejection reason, verbatim.
	ErrorDetail string
	// Payload is what was sent, or what would have been for a dry run.
	Payload *SubmissionPayload
}

func (r *Result) Accepted() bool {
	return r.Status == StatusAccepted
}

func (r *Result) Rejected() bool {
	return r.Status == StatusRejected
}

func (r *Result) DryRun() bool {
	return r.Status == StatusDryRun
}
