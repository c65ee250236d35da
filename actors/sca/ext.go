// Package sca describes the wire contract of the Subnet Coordinator Actor
// (SCA), the actor that lives at a well-known address on the parent chain
// and that registers subnets, holds their aggregate collateral, and accepts
// committed child checkpoints.
//
// The SCA's own state machine is out of scope for this module (see
// spec.md §1) — it is an external collaborator, reached only by sending it
// one of the typed messages declared here. This mirrors the `mod sca` stub
// in original_source/src/ext.rs, which likewise only carries method numbers
// and the small number of param types the subnet actor needs to build
// outbound messages.
package sca

import (
	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
)

// ActorAddr is the well-known ID address of the SCA on the parent chain.
var ActorAddr = func() address.Address {
	a, err := address.NewIDAddress(ActorID)
	if err != nil {
		panic(err)
	}
	return a
}()

// ActorID is the well-known actor ID of the SCA, fixed at genesis.
const ActorID = 64

// Methods is the set of method numbers the subnet actor may invoke on the SCA.
var Methods = struct {
	Register              abi.MethodNum
	AddStake              abi.MethodNum
	ReleaseStake          abi.MethodNum
	Kill                  abi.MethodNum
	CommitChildCheckpoint abi.MethodNum
}{2, 3, 4, 5, 6}

// FundParams is sent with ReleaseStake to tell the SCA how much of a
// subnet's locked collateral to release back to the subnet actor.
type FundParams struct {
	Value abi.TokenAmount
}

// CheckpointParams wraps a marshaled checkpoint for CommitChildCheckpoint.
// Checkpoints are transmitted pre-serialized since the SCA treats them
// opaquely, only checking basic consistency before committing them.
type CheckpointParams struct {
	Checkpoint []byte
}

// NewFundParams is a convenience constructor used by Leave when refunding
// a departing validator's stake through ReleaseStake.
func NewFundParams(value big.Int) *FundParams {
	return &FundParams{Value: value}
}
