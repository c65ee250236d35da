package subnet

import (
	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actor/actors/hierarchical"
	"github.com/consensus-shipyard/ipc-subnet-actor/checkpoints/schema"
)

var log = logging.Logger("subnet-actor")

// SubnetState is the singleton, content-addressed state of a deployed
// subnet actor.
type SubnetState struct {
	Name           string
	ParentID       hierarchical.SubnetID
	IPCGatewayAddr uint64
	Consensus      ConsensusType

	MinValidatorStake big.Int
	MinValidators     uint64
	FinalityThreshold abi.ChainEpoch
	CheckPeriod       abi.ChainEpoch

	TotalStake big.Int
	Stake      cid.Cid // HAMT[address]TokenAmount, missing key reads as zero

	Status Status

	Genesis []byte

	Checkpoints  cid.Cid // HAMT[epoch]Checkpoint, at most one entry per epoch
	WindowChecks cid.Cid // HAMT[cid(checkpoint)]Votes, pending-quorum scratch

	ValidatorSet []Validator
}

// ConstructState builds the initial state from constructor params,
// enforcing the lower bounds on min_validator_stake and check_period.
func ConstructState(store adt.Store, params *ConstructParams) (*SubnetState, error) {
	emptyStakeCid, err := adt.StoreEmptyMap(store, adt.BalanceTableBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create stake balance table: %w", err)
	}
	emptyCheckpointsCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty checkpoints map: %w", err)
	}
	emptyWindowChecksCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty window-checks map: %w", err)
	}

	minValidatorStake := params.MinValidatorStake
	if minValidatorStake.LessThan(MinCollateral()) {
		minValidatorStake = MinCollateral()
	}

	checkPeriod := params.CheckPeriod
	if checkPeriod < MinCheckPeriod {
		checkPeriod = DefaultCheckPeriod
	}

	return &SubnetState{
		Name:              params.Name,
		ParentID:          params.Parent,
		IPCGatewayAddr:    params.IPCGatewayAddr,
		Consensus:         params.Consensus,
		MinValidatorStake: minValidatorStake,
		MinValidators:     params.MinValidators,
		FinalityThreshold: params.FinalityThreshold,
		CheckPeriod:       checkPeriod,
		TotalStake:        big.Zero(),
		Stake:             emptyStakeCid,
		Status:            Instantiated,
		Genesis:           params.Genesis,
		Checkpoints:       emptyCheckpointsCid,
		WindowChecks:      emptyWindowChecksCid,
		ValidatorSet:      nil,
	}, nil
}

// ---- Stake ledger (spec.md §4.2) ----------------------------------------
//
// Stake is a BalanceTable, the same adt helper specs-actors' market actor
// uses for escrow: a HAMT under the hood, with balance-aware
// add/subtract built in instead of hand-rolled get-then-put round trips.

func (st *SubnetState) getStake(s adt.Store, addr address.Address) (big.Int, error) {
	stakes, err := adt.AsBalanceTable(s, st.Stake)
	if err != nil {
		return big.Zero(), xerrors.Errorf("failed to load stake balance table: %w", err)
	}
	return stakes.Get(addr)
}

// isValidator reports membership in the current validator set.
func (st *SubnetState) isValidator(addr address.Address) bool {
	for _, v := range st.ValidatorSet {
		if v.Addr == addr {
			return true
		}
	}
	return false
}

// admitValidator appends addr to the validator set, subject to the
// Delegated admission rule: a Delegated subnet only ever admits its first
// validator (spec.md I2, Design Notes "Validator-admission policy").
func (st *SubnetState) admitValidator(addr address.Address, netAddr string) {
	if st.isValidator(addr) {
		return
	}
	if st.Consensus == Delegated && len(st.ValidatorSet) > 0 {
		return
	}
	st.ValidatorSet = append(st.ValidatorSet, Validator{Addr: addr, NetAddr: netAddr})
}

// addStake implements spec.md §4.2 add_stake.
func (st *SubnetState) addStake(s adt.Store, addr address.Address, netAddr string, amount big.Int) error {
	stakes, err := adt.AsBalanceTable(s, st.Stake)
	if err != nil {
		return xerrors.Errorf("failed to load stake balance table: %w", err)
	}
	if err := stakes.AddToBalance(addr, amount); err != nil {
		return xerrors.Errorf("failed to add stake for %s: %w", addr, err)
	}
	st.Stake, err = stakes.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush stake balance table: %w", err)
	}
	st.TotalStake = big.Add(st.TotalStake, amount)

	next, err := stakes.Get(addr)
	if err != nil {
		return xerrors.Errorf("failed to read back stake for %s: %w", addr, err)
	}
	if next.GreaterThanEqual(st.MinValidatorStake) {
		st.admitValidator(addr, netAddr)
	}
	return nil
}

// rmStake implements spec.md §4.2 rm_stake. amount must equal the
// validator's current stake; only full withdrawal is supported
// (LeavingCoeff == 1, partial unstaking is a non-goal). The division by
// LeavingCoeff happens before the underflow check, matching the order the
// original actor applies it in.
func (st *SubnetState) rmStake(s adt.Store, addr address.Address, amount big.Int) error {
	stakes, err := adt.AsBalanceTable(s, st.Stake)
	if err != nil {
		return xerrors.Errorf("failed to load stake balance table: %w", err)
	}
	cur, err := stakes.Get(addr)
	if err != nil {
		return xerrors.Errorf("failed to get stake for %s: %w", addr, err)
	}
	adjusted := big.Div(cur, big.NewInt(LeavingCoeff))
	next := big.Sub(adjusted, amount)
	if next.LessThan(big.Zero()) {
		return xerrors.Errorf("rm_stake would underflow stake for %s", addr)
	}
	if err := stakes.Put(abi.AddrKey(addr), &next); err != nil {
		return xerrors.Errorf("failed to set stake for %s: %w", addr, err)
	}
	st.Stake, err = stakes.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush stake balance table: %w", err)
	}
	st.TotalStake = big.Sub(st.TotalStake, amount)

	out := st.ValidatorSet[:0]
	for _, v := range st.ValidatorSet {
		if v.Addr != addr {
			out = append(out, v)
		}
	}
	st.ValidatorSet = out
	return nil
}

// ---- Status machine (spec.md §4.3) ---------------------------------------

// mutateStatus recomputes Status after a stake mutation. Kill's
// Active/Inactive -> Terminating edge is explicit (see actor.go Kill) and
// is not driven by this function; Terminating -> Killed is.
func (st *SubnetState) mutateStatus(currentBalance big.Int) {
	before := st.Status
	switch st.Status {
	case Instantiated:
		if st.TotalStake.GreaterThanEqual(MinCollateral()) {
			st.Status = Active
		}
	case Active:
		if st.TotalStake.LessThan(MinCollateral()) {
			st.Status = Inactive
		}
	case Inactive:
		if st.TotalStake.GreaterThanEqual(MinCollateral()) {
			st.Status = Active
		}
	case Terminating:
		if st.TotalStake.IsZero() && currentBalance.IsZero() {
			st.Status = Killed
		}
	}
	if before != st.Status {
		log.Infof("subnet %s transitioned %s -> %s", st.Name, before, st.Status)
	}
}

// ---- Checkpoint-vote engine (spec.md §4.4) -------------------------------

// GetCheckpoint looks up a committed checkpoint by epoch.
func (st *SubnetState) GetCheckpoint(s adt.Store, epoch abi.ChainEpoch) (*schema.Checkpoint, bool, error) {
	checkpoints, err := adt.AsMap(s, st.Checkpoints, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load checkpoints: %w", err)
	}
	var out schema.Checkpoint
	found, err := checkpoints.Get(abi.UIntKey(uint64(epoch)), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get checkpoint for epoch %d: %w", epoch, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

func (st *SubnetState) putCheckpoint(s adt.Store, ch *schema.Checkpoint) error {
	checkpoints, err := adt.AsMap(s, st.Checkpoints, builtin.DefaultHamtBitwidth)
	if err != nil {
		return xerrors.Errorf("failed to load checkpoints: %w", err)
	}
	if err := checkpoints.Put(abi.UIntKey(uint64(ch.Epoch())), ch); err != nil {
		return xerrors.Errorf("failed to put checkpoint: %w", err)
	}
	st.Checkpoints, err = checkpoints.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush checkpoints: %w", err)
	}
	return nil
}

// prevCheckpointCid returns the CID of the most recently committed
// checkpoint at an earlier multiple of CheckPeriod, or the empty CID if
// none exists.
func (st *SubnetState) prevCheckpointCid(s adt.Store, epoch abi.ChainEpoch) (cid.Cid, error) {
	e := epoch - st.CheckPeriod
	for e >= 0 {
		ch, found, err := st.GetCheckpoint(s, e)
		if err != nil {
			return cid.Undef, err
		}
		if found {
			return ch.Cid()
		}
		e -= st.CheckPeriod
	}
	return schema.NoPreviousCheck, nil
}

// getVotes loads the pending-quorum vote row for a checkpoint CID.
func (st *SubnetState) getVotes(s adt.Store, checkCid cid.Cid) (*Votes, error) {
	checks, err := adt.AsMap(s, st.WindowChecks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load window checks: %w", err)
	}
	var out Votes
	found, err := checks.Get(abi.CidKey(checkCid), &out)
	if err != nil {
		return nil, xerrors.Errorf("failed to get votes for %s: %w", checkCid, err)
	}
	if !found {
		return &Votes{}, nil
	}
	return &out, nil
}

func (st *SubnetState) putVotes(s adt.Store, checkCid cid.Cid, v *Votes) error {
	checks, err := adt.AsMap(s, st.WindowChecks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return xerrors.Errorf("failed to load window checks: %w", err)
	}
	if err := checks.Put(abi.CidKey(checkCid), v); err != nil {
		return xerrors.Errorf("failed to put votes: %w", err)
	}
	st.WindowChecks, err = checks.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush window checks: %w", err)
	}
	return nil
}

func (st *SubnetState) deleteVotes(s adt.Store, checkCid cid.Cid) error {
	checks, err := adt.AsMap(s, st.WindowChecks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return xerrors.Errorf("failed to load window checks: %w", err)
	}
	if err := checks.Delete(abi.CidKey(checkCid)); err != nil {
		return xerrors.Errorf("failed to delete votes: %w", err)
	}
	st.WindowChecks, err = checks.Root()
	if err != nil {
		return xerrors.Errorf("failed to flush window checks: %w", err)
	}
	return nil
}

// verifyCheckpoint enforces the seven checks in spec.md §4.4. caller must
// already be an ID address.
func (st *SubnetState) verifyCheckpoint(rt runtime.Runtime, host Host, selfAddr address.Address, caller address.Address, ch *schema.Checkpoint) error {
	if st.Status != Active {
		return xerrors.Errorf("submitting checkpoints is not allowed while subnet is not active")
	}

	store := adt.AsStore(rt)
	if _, found, err := st.GetCheckpoint(store, ch.Epoch()); err != nil {
		return err
	} else if found {
		return xerrors.Errorf("checkpoint for epoch %d already committed", ch.Epoch())
	}

	if int64(ch.Epoch())%int64(st.CheckPeriod) != 0 {
		return xerrors.Errorf("epoch %d does not fall on a checkpoint boundary", ch.Epoch())
	}

	wantSource := hierarchical.NewSubnetID(st.ParentID, selfAddr).String()
	if ch.Source() != wantSource {
		return xerrors.Errorf("checkpoint source %q does not match subnet %q", ch.Source(), wantSource)
	}

	wantPrev, err := st.prevCheckpointCid(store, ch.Epoch())
	if err != nil {
		return err
	}
	if wantPrev != ch.PrevCheck() {
		return xerrors.Errorf("checkpoint's prev_check is not consistent with the last committed checkpoint")
	}

	pubkey, err := host.ResolvePubkey(caller)
	if err != nil {
		return xerrors.Errorf("failed to resolve validator public key: %w", err)
	}
	checkCid, err := ch.Cid()
	if err != nil {
		return err
	}
	sig := crypto.Signature{Type: crypto.SigTypeBLS, Data: ch.Signature}
	if err := host.VerifySignature(sig, pubkey, checkCid.Bytes()); err != nil {
		return xerrors.Errorf("checkpoint signature verification failed: %w", err)
	}

	if !st.isValidator(caller) {
		return xerrors.Errorf("checkpoint not submitted by a validator")
	}

	return nil
}

// recordVote registers caller's vote for ch and reports whether quorum is
// now reached. Quorum is an exact-ratio comparison — sum_of_stake*3 >=
// total_stake*2 — never a floating-point one (spec.md §9 Design Notes
// "Voting threshold").
func (st *SubnetState) recordVote(s adt.Store, ch *schema.Checkpoint, caller address.Address) (bool, error) {
	checkCid, err := ch.Cid()
	if err != nil {
		return false, err
	}
	votes, err := st.getVotes(s, checkCid)
	if err != nil {
		return false, err
	}
	if votes.Has(caller) {
		return false, xerrors.Errorf("validator %s already voted for this checkpoint", caller)
	}
	votes.Validators = append(votes.Validators, caller)

	sum := big.Zero()
	for _, v := range votes.Validators {
		stake, err := st.getStake(s, v)
		if err != nil {
			return false, err
		}
		sum = big.Add(sum, stake)
	}

	reached := hasMajority(sum, st.TotalStake)
	if reached {
		if err := st.deleteVotes(s, checkCid); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := st.putVotes(s, checkCid, votes); err != nil {
		return false, err
	}
	return false, nil
}

// hasMajority reports whether sum represents at least 2/3 of total, using
// exact integer arithmetic: sum*3 >= total*2.
func hasMajority(sum, total big.Int) bool {
	if total.IsZero() {
		return false
	}
	lhs := big.Mul(sum, big.NewInt(3))
	rhs := big.Mul(total, big.NewInt(2))
	return lhs.GreaterThanEqual(rhs)
}

// commitCheckpoint finalizes ch once quorum is reached: it is stored as the
// canonical checkpoint for its epoch.
func (st *SubnetState) commitCheckpoint(s adt.Store, ch *schema.Checkpoint) error {
	return st.putCheckpoint(s, ch)
}
