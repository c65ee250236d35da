package subnet

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	"github.com/filecoin-project/specs-actors/v7/support/mock"
	"github.com/stretchr/testify/require"

	"github.com/consensus-shipyard/ipc-subnet-actor/actors/hierarchical"
	"github.com/consensus-shipyard/ipc-subnet-actor/actors/sca"
	"github.com/consensus-shipyard/ipc-subnet-actor/checkpoints/schema"
)

var receiverAddr = mustActorAddr(2048)

func mustActorAddr(id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	if err != nil {
		panic(err)
	}
	return a
}

func newSubnetRuntime(t *testing.T) *mock.Runtime {
	builder := mock.NewBuilder(receiverAddr, builtin.InitActorAddr).
		WithActorType(receiverAddr, CodeID)
	return builder.Build(t)
}

func constructSubnet(t *testing.T, rt *mock.Runtime) {
	params := &ConstructParams{
		Parent:            hierarchical.RootSubnetID,
		Name:              "testnet",
		IPCGatewayAddr:    1024,
		Consensus:         Delegated,
		MinValidatorStake: MinCollateral(),
		MinValidators:     1,
		CheckPeriod:       MinCheckPeriod,
	}
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	rt.SetCaller(builtin.InitActorAddr, builtin.InitActorCodeID)
	ret := rt.Call(Actor{}.Constructor, params)
	require.Nil(t, ret)
	rt.Verify()
}

func callerAccount(rt *mock.Runtime, caller address.Address, value big.Int) {
	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.SetReceived(value)
	rt.SetBalance(value)
}

func TestConstructorRejectsNonInitCaller(t *testing.T) {
	rt := newSubnetRuntime(t)
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	rt.SetCaller(mustActorAddr(500), builtin.AccountActorCodeID)

	require.Panics(t, func() {
		rt.Call(Actor{}.Constructor, &ConstructParams{
			Parent: hierarchical.RootSubnetID,
			Name:   "testnet",
		})
	})
}

func TestJoinBelowThresholdStaysInstantiated(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	half := big.Div(MinCollateral(), big.NewInt(2))
	callerAccount(rt, caller, half)
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)

	ret := rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.2.3.4:1234"})
	require.Nil(t, ret)
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Instantiated, st.Status)
	require.False(t, st.isValidator(caller))
}

func TestJoinActivatesSubnetAndRegistersWithCoordinator(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	callerAccount(rt, caller, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)

	ret := rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.2.3.4:1234"})
	require.Nil(t, ret)
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Active, st.Status)
	require.True(t, st.isValidator(caller))
}

func TestSecondValidatorTopsUpWithAddStake(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	first := mustActorAddr(100)
	callerAccount(rt, first, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
	rt.Verify()

	second := mustActorAddr(101)
	callerAccount(rt, second, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.AddStake, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "2.2.2.2:2"})
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Active, st.Status)
	require.Equal(t, big.Mul(big.NewInt(2), MinCollateral()), st.TotalStake)
}

func TestLeaveReturnsStakeAndReleasesFromCoordinator(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	callerAccount(rt, caller, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
	rt.Verify()

	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.SetReceived(big.Zero())
	// Join's Register send spent the mock balance; put back the collateral
	// the coordinator returns on ReleaseStake so the refund can be paid.
	rt.SetBalance(MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.ReleaseStake, sca.NewFundParams(MinCollateral()), big.Zero(), &builtin.Discard{}, exitcode.Ok)
	rt.ExpectSend(caller, builtin.MethodSend, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)

	ret := rt.Call(Actor{}.Leave, &LeaveParams{})
	require.Nil(t, ret)
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Inactive, st.Status)
	require.False(t, st.isValidator(caller))
}

func TestKillRejectsWhileValidatorsRemain(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	callerAccount(rt, caller, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
	rt.Verify()

	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	require.Panics(t, func() {
		rt.Call(Actor{}.Kill, &KillParams{})
	})
}

func TestKillNotifiesCoordinatorOnceSubnetIsEmpty(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	callerAccount(rt, caller, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
	rt.Verify()

	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.SetReceived(big.Zero())
	// Join's Register send spent the mock balance; put back the collateral
	// the coordinator returns on ReleaseStake so the refund can be paid.
	rt.SetBalance(MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.ReleaseStake, sca.NewFundParams(MinCollateral()), big.Zero(), &builtin.Discard{}, exitcode.Ok)
	rt.ExpectSend(caller, builtin.MethodSend, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Leave, &LeaveParams{})
	rt.Verify()

	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Kill, nil, big.Zero(), &builtin.Discard{}, exitcode.Ok)

	ret := rt.Call(Actor{}.Kill, &KillParams{})
	require.Nil(t, ret)
	rt.Verify()

	var st SubnetState
	rt.GetState(&st)
	require.Equal(t, Killed, st.Status)
}

func TestJoinRequiresPositiveValue(t *testing.T) {
	rt := newSubnetRuntime(t)
	constructSubnet(t, rt)

	caller := mustActorAddr(100)
	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.SetReceived(big.Zero())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)

	require.Panics(t, func() {
		rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.2.3.4:1234"})
	})
}

func TestSubmitCheckpointReachesQuorumAndRelaysToCoordinator(t *testing.T) {
	rt := newSubnetRuntime(t)
	params := &ConstructParams{
		Parent:            hierarchical.RootSubnetID,
		Name:              "testnet",
		IPCGatewayAddr:    1024,
		Consensus:         PoW,
		MinValidatorStake: MinCollateral(),
		MinValidators:     1,
		CheckPeriod:       MinCheckPeriod,
	}
	rt.ExpectValidateCallerAddr(builtin.InitActorAddr)
	rt.SetCaller(builtin.InitActorAddr, builtin.InitActorCodeID)
	require.Nil(t, rt.Call(Actor{}.Constructor, params))
	rt.Verify()

	v1 := mustActorAddr(100)
	v2 := mustActorAddr(101)
	v3 := mustActorAddr(102)

	callerAccount(rt, v1, MinCollateral())
	rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
	rt.ExpectSend(sca.ActorAddr, sca.Methods.Register, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
	rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
	rt.Verify()

	for _, v := range []address.Address{v2, v3} {
		callerAccount(rt, v, MinCollateral())
		rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
		rt.ExpectSend(sca.ActorAddr, sca.Methods.AddStake, nil, MinCollateral(), &builtin.Discard{}, exitcode.Ok)
		rt.Call(Actor{}.Join, &JoinParams{ValidatorNetAddr: "1.1.1.1:1"})
		rt.Verify()
	}

	ch := schema.NewRawCheckpoint(hierarchical.NewSubnetID(hierarchical.RootSubnetID, receiverAddr), MinCheckPeriod, schema.NoPreviousCheck)
	ch.Signature = []byte("sig")
	checkCid, err := ch.Cid()
	require.NoError(t, err)
	raw, err := ch.MarshalCBOR()
	require.NoError(t, err)

	submit := func(voter address.Address, lastVote bool) {
		rt.SetCaller(voter, builtin.AccountActorCodeID)
		rt.SetReceived(big.Zero())
		rt.ExpectValidateCallerType(builtin.AccountActorCodeID)
		var pubkey address.Address = voter
		rt.ExpectSend(voter, PubkeyAddressMethod, nil, big.Zero(), &pubkey, exitcode.Ok)
		rt.ExpectVerifySignature(crypto.Signature{Type: crypto.SigTypeBLS, Data: ch.Signature}, voter, checkCid.Bytes(), nil)
		if lastVote {
			rt.ExpectSend(sca.ActorAddr, sca.Methods.CommitChildCheckpoint, &sca.CheckpointParams{Checkpoint: raw}, big.Zero(), &builtin.Discard{}, exitcode.Ok)
		}
		ret := rt.Call(Actor{}.SubmitCheckpoint, &CheckpointParams{Checkpoint: raw})
		require.Nil(t, ret)
		rt.Verify()
	}

	submit(v1, false)
	submit(v2, true)

	var st SubnetState
	rt.GetState(&st)
	_, found, err := st.GetCheckpoint(adt.AsStore(rt), ch.Epoch())
	require.NoError(t, err)
	require.True(t, found)
}
