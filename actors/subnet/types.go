// Package subnet implements the subnet actor: the on-chain governance
// contract that manages a child subnet's validator set, collateral
// bookkeeping, lifecycle status, and checkpoint-voting protocol.
package subnet

import (
	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/consensus-shipyard/ipc-subnet-actor/actors/hierarchical"
)

// Method numbers, wire-stable.
const (
	MethodConstructor      = abi.MethodNum(1)
	MethodJoin             = abi.MethodNum(2)
	MethodLeave            = abi.MethodNum(3)
	MethodKill             = abi.MethodNum(4)
	MethodSubmitCheckpoint = abi.MethodNum(5)
)

const (
	// MinCollateralAtto is the lower bound below which a subnet cannot become
	// (or remain) Active.
	MinCollateralAtto = 1_000_000_000_000_000_000 // 10^18

	// DefaultCheckPeriod is used when a constructor doesn't request a
	// longer one.
	DefaultCheckPeriod = abi.ChainEpoch(10)

	// MinCheckPeriod is the shortest checkpoint period a subnet may run.
	MinCheckPeriod = abi.ChainEpoch(10)

	// LeavingCoeff is a reserved hook for economic penalties on exit.
	// Fixed at 1 (full recovery of stake) until cryptoecon is designed;
	// see spec.md §9 Open Questions (a)/(b) — do not change its semantics
	// without resolving those first.
	LeavingCoeff = 1

	// PubkeyAddressMethod is the account actor's well-known method for
	// resolving a secp/bls public key from a caller's ID address.
	PubkeyAddressMethod = abi.MethodNum(2)
)

// MinCollateral is MinCollateralAtto as a TokenAmount.
func MinCollateral() big.Int {
	return big.NewInt(MinCollateralAtto)
}

// ConsensusType enumerates the consensus algorithms a subnet may run.
// Ordinals are wire-stable.
type ConsensusType uint64

const (
	Delegated ConsensusType = iota
	PoW
	Tendermint
	Mir
	FilecoinEC
	Dummy
)

// Status is the subnet's lifecycle state. Ordinals are wire-stable.
type Status int32

const (
	Instantiated Status = iota
	Active
	Inactive
	Terminating
	Killed
)

func (s Status) String() string {
	switch s {
	case Instantiated:
		return "Instantiated"
	case Active:
		return "Active"
	case Inactive:
		return "Inactive"
	case Terminating:
		return "Terminating"
	case Killed:
		return "Killed"
	default:
		return "Unknown"
	}
}

// Validator is a member of the subnet's validator set.
type Validator struct {
	Addr    address.Address
	NetAddr string
}

// Votes is the ordered, duplicate-free list of validators that have signed
// a given checkpoint CID so far.
type Votes struct {
	Validators []address.Address
}

// Has reports whether addr has already voted.
func (v *Votes) Has(addr address.Address) bool {
	for _, a := range v.Validators {
		if a == addr {
			return true
		}
	}
	return false
}

// ConstructParams are the constructor's wire parameters.
type ConstructParams struct {
	Parent            hierarchical.SubnetID
	Name              string
	IPCGatewayAddr    uint64
	Consensus         ConsensusType
	MinValidatorStake big.Int
	MinValidators     uint64
	FinalityThreshold abi.ChainEpoch
	CheckPeriod       abi.ChainEpoch
	Genesis           []byte
}

// JoinParams are Join's wire parameters.
type JoinParams struct {
	ValidatorNetAddr string
}

// LeaveParams are Leave's wire parameters (empty).
type LeaveParams struct{}

// KillParams are Kill's wire parameters (empty).
type KillParams struct{}
