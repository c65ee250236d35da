package subnet

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/require"
)

func mustIDAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

// sentSubnetMessage records one call through fakeHost.Send, the Go
// analogue of the original actor's expected_msg bookkeeping.
type sentSubnetMessage struct {
	To     address.Address
	Method abi.MethodNum
	Params cbor.Marshaler
	Value  abi.TokenAmount
}

// fakeHost is a Host double for unit tests that don't need a full
// mock.Runtime: it records every Send and returns canned answers for
// signature verification and pubkey resolution.
type fakeHost struct {
	sent []sentSubnetMessage

	sendExit map[abi.MethodNum]exitcode.ExitCode

	pubkeys   map[address.Address]address.Address
	sigOK     bool
	sigErr    error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		pubkeys: make(map[address.Address]address.Address),
		sigOK:   true,
	}
}

func (h *fakeHost) Send(to address.Address, method abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount) exitcode.ExitCode {
	h.sent = append(h.sent, sentSubnetMessage{To: to, Method: method, Params: params, Value: value})
	if code, ok := h.sendExit[method]; ok {
		return code
	}
	return exitcode.Ok
}

func (h *fakeHost) VerifySignature(sig crypto.Signature, signer address.Address, plaintext []byte) error {
	if h.sigErr != nil {
		return h.sigErr
	}
	if !h.sigOK {
		return errInvalidSignature
	}
	return nil
}

func (h *fakeHost) ResolvePubkey(addr address.Address) (address.Address, error) {
	if pk, ok := h.pubkeys[addr]; ok {
		return pk, nil
	}
	return addr, nil
}

type invalidSignatureError struct{}

func (invalidSignatureError) Error() string { return "invalid signature" }

var errInvalidSignature = invalidSignatureError{}
