package subnet

import (
	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"golang.org/x/xerrors"
)

// Host is the set of capabilities the subnet actor needs from its
// surroundings beyond state storage: sending cross-actor messages,
// verifying a checkpoint signature, and resolving a caller to the public
// key the account actor holds for it.
//
// The original Rust actor this module was distilled from short-circuited
// all three behind a `testing: bool` field on its persisted state (see
// spec.md §9 Design Notes). Folding that into the wire-encoded state would
// mean a subnet's on-chain record carries a test-only flag forever; instead
// Host is an injected collaborator, with a production implementation
// backed by the real runtime and a fake used by tests.
type Host interface {
	// Send dispatches a cross-actor message and returns the exit code of
	// the call.
	Send(to address.Address, method abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount) exitcode.ExitCode
	// VerifySignature checks a signature over plaintext against the given
	// signer's registered key.
	VerifySignature(sig crypto.Signature, signer address.Address, plaintext []byte) error
	// ResolvePubkey resolves a caller address to an ID address and fetches
	// its account-actor public key.
	ResolvePubkey(addr address.Address) (address.Address, error)
}

// runtimeHost is the production Host, backed by the actor's runtime.
type runtimeHost struct {
	rt runtime.Runtime
}

// NewRuntimeHost builds the production Host used by actor methods invoked
// through a real VM.
func NewRuntimeHost(rt runtime.Runtime) Host {
	return &runtimeHost{rt: rt}
}

func (h *runtimeHost) Send(to address.Address, method abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount) exitcode.ExitCode {
	code := h.rt.Send(to, method, params, value, &builtin.Discard{})
	return code
}

func (h *runtimeHost) VerifySignature(sig crypto.Signature, signer address.Address, plaintext []byte) error {
	return h.rt.VerifySignature(sig, signer, plaintext)
}

func (h *runtimeHost) ResolvePubkey(addr address.Address) (address.Address, error) {
	resolved, ok := h.rt.ResolveAddress(addr)
	if !ok {
		return address.Undef, xerrors.Errorf("could not resolve address %s to an ID address", addr)
	}
	var pubkey address.Address
	code := h.rt.Send(resolved, PubkeyAddressMethod, nil, abi.NewTokenAmount(0), &pubkey)
	if !code.IsSuccess() {
		return address.Undef, xerrors.Errorf("failed to fetch public key for %s: exit code %d", addr, code)
	}
	return pubkey, nil
}
