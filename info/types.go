package info

import "github.com/banky/go-hyperdeploy/types"

// GasAuction is one observation of the deploy gas auction. All fields are
// optional on the wire: before the auction opens only the start time is
// known, and after it concludes every field may be absent.
type GasAuction struct {
	StartTimeSeconds *int64             `json:"startTimeSeconds"`
	DurationSeconds  *int64             `json:"durationSeconds"`
	StartGas         *types.FloatString `json:"startGas"`
	CurrentGas       *types.FloatString `json:"currentGas"`
	EndGas           *types.FloatString `json:"endGas"`
}

// SpotDeployState is the response to a spotDeployState query.
type SpotDeployState struct {
	GasAuction GasAuction `json:"gasAuction"`
}
