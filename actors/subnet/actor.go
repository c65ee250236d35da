package subnet

//go:generate go run ./gen/gen.go

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"

	"github.com/consensus-shipyard/ipc-subnet-actor/actors/sca"
	"github.com/consensus-shipyard/ipc-subnet-actor/checkpoints/schema"
)

var _ runtime.VMActor = Actor{}

// Actor is the subnet actor. One instance of it is deployed per subnet,
// by the init actor on Exec (see Constructor).
type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		MethodConstructor:      a.Constructor,
		MethodJoin:             a.Join,
		MethodLeave:            a.Leave,
		MethodKill:             a.Kill,
		MethodSubmitCheckpoint: a.SubmitCheckpoint,
	}
}

func (a Actor) Code() cid.Cid {
	return CodeID
}

func (a Actor) IsSingleton() bool {
	return false
}

func (a Actor) State() cbor.Er {
	return new(SubnetState)
}

// Constructor populates the initial subnet state. Called by the init actor
// on Exec, method number 1.
func (a Actor) Constructor(rt runtime.Runtime, params *ConstructParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.InitActorAddr)

	st, err := ConstructState(adt.AsStore(rt), params)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct subnet state")
	rt.StateCreate(st)
	return nil
}

// Join onboards a new validator, or tops up an existing one's collateral.
// A minimum positive transfer is required; whether it flips the subnet
// from Instantiated to Active determines whether the parent is told
// Register (first activation) or AddStake (every later top-up).
func (a Actor) Join(rt runtime.Runtime, params *JoinParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.AccountActorCodeID)
	caller := rt.Caller()

	amount := rt.ValueReceived()
	if amount.LessThanEqual(big.Zero()) {
		rt.Abortf(exitcode.ErrIllegalArgument, "a minimum collateral is required to join the subnet")
	}

	host := NewRuntimeHost(rt)

	var st SubnetState
	var toSend func() exitcode.ExitCode
	rt.StateTransaction(&st, func() {
		wasInstantiated := st.Status == Instantiated

		err := st.addStake(adt.AsStore(rt), caller, params.ValidatorNetAddr, amount)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to add stake")

		curBalance := st.TotalStake

		if wasInstantiated && curBalance.GreaterThanEqual(MinCollateral()) {
			total := curBalance
			toSend = func() exitcode.ExitCode {
				return host.Send(sca.ActorAddr, sca.Methods.Register, nil, total)
			}
		} else if !wasInstantiated {
			toSend = func() exitcode.ExitCode {
				return host.Send(sca.ActorAddr, sca.Methods.AddStake, nil, amount)
			}
		}

		st.mutateStatus(rt.CurrentBalance())
	})

	if toSend != nil {
		code := toSend()
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed relaying stake to coordinator actor: exit code %d", code)
		}
	}

	return nil
}

// Leave withdraws a validator's full stake and removes it from the
// validator set. Only whole withdrawals are supported (LeavingCoeff == 1).
func (a Actor) Leave(rt runtime.Runtime, _ *LeaveParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.AccountActorCodeID)
	caller := rt.Caller()

	host := NewRuntimeHost(rt)

	var st SubnetState
	var stake big.Int
	var releaseToSCA bool
	rt.StateTransaction(&st, func() {
		var err error
		stake, err = st.getStake(adt.AsStore(rt), caller)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to read stake")
		if stake.IsZero() {
			rt.Abortf(exitcode.ErrIllegalState, "caller has no stake in subnet")
		}

		releaseToSCA = st.Status != Terminating

		err = st.rmStake(adt.AsStore(rt), caller, stake)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to remove stake")

		st.mutateStatus(rt.CurrentBalance())
	})

	if releaseToSCA {
		code := host.Send(sca.ActorAddr, sca.Methods.ReleaseStake, sca.NewFundParams(stake), big.Zero())
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed requesting stake release from coordinator actor: exit code %d", code)
		}
	}

	code := host.Send(caller, builtin.MethodSend, nil, stake)
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed returning stake to validator: exit code %d", code)
	}

	return nil
}

// Kill begins shutting the subnet down: it may only be called once every
// validator has already left. It moves the subnet to Terminating and runs
// mutateStatus, which goes straight on to Killed when no stake and no
// balance remain; otherwise a later Leave that drains the remaining stake
// lets mutateStatus observe Terminating -> Killed.
func (a Actor) Kill(rt runtime.Runtime, _ *KillParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()

	host := NewRuntimeHost(rt)

	var st SubnetState
	rt.StateTransaction(&st, func() {
		if st.Status == Terminating || st.Status == Killed {
			rt.Abortf(exitcode.ErrIllegalState, "the subnet is already in a killed or terminating state")
		}
		if len(st.ValidatorSet) != 0 {
			rt.Abortf(exitcode.ErrIllegalState, "this subnet can only be killed when all validators have left")
		}
		st.Status = Terminating
		st.mutateStatus(rt.CurrentBalance())
	})

	code := host.Send(sca.ActorAddr, sca.Methods.Kill, nil, big.Zero())
	if !code.IsSuccess() {
		rt.Abortf(exitcode.ErrIllegalState, "failed notifying coordinator actor of kill: exit code %d", code)
	}

	return nil
}

// CheckpointParams carries the wire-marshaled checkpoint a validator is
// voting for.
type CheckpointParams struct {
	Checkpoint []byte
}

// SubmitCheckpoint accepts one validator's signed vote for a checkpoint.
// Once 2/3 of staked collateral has voted for the same checkpoint CID, it
// is committed locally and relayed to the coordinator actor.
func (a Actor) SubmitCheckpoint(rt runtime.Runtime, params *CheckpointParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.AccountActorCodeID)
	caller := rt.Caller()

	ch := &schema.Checkpoint{}
	err := ch.UnmarshalCBOR(params.Checkpoint)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "error unmarshalling checkpoint")

	host := NewRuntimeHost(rt)

	// Verification resolves the caller's public key with a send to the
	// account actor, so it runs on a read-only view of the state before the
	// transaction that records the vote.
	var st SubnetState
	rt.StateReadonly(&st)
	err = st.verifyCheckpoint(rt, host, rt.Receiver(), caller, ch)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "checkpoint failed verification")

	var committed bool
	rt.StateTransaction(&st, func() {
		reached, err := st.recordVote(adt.AsStore(rt), ch, caller)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed recording vote")

		if reached {
			err = st.commitCheckpoint(adt.AsStore(rt), ch)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed committing checkpoint")
			committed = true
		}
	})

	if committed {
		raw, err := ch.MarshalCBOR()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed marshalling checkpoint for relay")
		code := host.Send(sca.ActorAddr, sca.Methods.CommitChildCheckpoint, &sca.CheckpointParams{Checkpoint: raw}, big.Zero())
		if !code.IsSuccess() {
			rt.Abortf(exitcode.ErrIllegalState, "failed committing checkpoint to coordinator actor: exit code %d", code)
		}
	}

	return nil
}
