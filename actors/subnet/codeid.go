package subnet

import (
	cid "github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// CodeID is this actor's code CID, built the same way specs-actors builds
// its builtin actor code CIDs: an identity-hash digest of the actor's
// name, so the CID is deterministic and never touches a blockstore.
var CodeID = mustActorCodeCid("fil/7/subnetactor")

func mustActorCodeCid(name string) cid.Cid {
	h, err := mh.Sum([]byte(name), mh.IDENTITY, -1)
	if err != nil {
		panic(err)
	}
	return cid.NewCidV1(cid.Raw, h)
}
