//go:build ignore

// Command gen regenerates the hand-authored cbor_gen.go files in this
// package's parent directory via whyrusleeping/cbor-gen.
package main

import (
	gen "github.com/whyrusleeping/cbor-gen"

	subnet "github.com/consensus-shipyard/ipc-subnet-actor/actors/subnet"
)

func main() {
	if err := gen.WriteTupleEncodersToFile(
		"./cbor_gen.go",
		"subnet",
		subnet.ConstructParams{},
		subnet.JoinParams{},
		subnet.LeaveParams{},
		subnet.KillParams{},
		subnet.CheckpointParams{},
		subnet.Validator{},
		subnet.Votes{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile(
		"./state_cbor_gen.go",
		"subnet",
		subnet.SubnetState{},
	); err != nil {
		panic(err)
	}
}
