// Package schema defines the wire shape of a subnet checkpoint: a
// periodic, signed commitment of child-chain state posted to the parent,
// identified by the content address of its unsigned data.
package schema

import (
	"bytes"
	"io"

	"github.com/filecoin-project/go-state-types/abi"
	cid "github.com/ipfs/go-cid"
	ipld "github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/multiformats/go-multicodec"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actor/actors/hierarchical"
)

// Linkproto is the link prototype used to compute a Checkpoint's CID.
var Linkproto = cidlink.LinkPrototype{
	Prefix: cid.Prefix{
		Version:  1,
		Codec:    uint64(multicodec.DagCbor),
		MhType:   uint64(multicodec.Sha2_256),
		MhLength: 32,
	},
}

// NoPreviousCheck is the sentinel prev_check value for the first checkpoint
// a subnet ever submits.
var NoPreviousCheck = cid.Undef

var checkpointSchema schema.Type

func init() {
	checkpointSchema = initCheckpointSchema()
}

// ChildCheck references a checkpoint committed by a child subnet further
// down the hierarchy. This subnet actor never populates it itself (that is
// the SCA's job once it starts aggregating a multi-level hierarchy), but
// the field is carried so the wire shape stays compatible with the rest of
// the hierarchy it feeds into.
type ChildCheck struct {
	Source string
	Check  cid.Cid
}

// CheckData is the unsigned portion of a Checkpoint. Its CID is the
// checkpoint's identity.
type CheckData struct {
	Source     string
	Epoch      int64
	PrevCheck  cid.Cid
	Childs     []ChildCheck
}

// Checkpoint is a periodic, signed commitment of subnet state submitted by
// a validator for quorum voting.
type Checkpoint struct {
	Data      CheckData
	Signature []byte
}

// NewRawCheckpoint builds an unsigned checkpoint template for a validator to
// populate and sign before submission.
func NewRawCheckpoint(source hierarchical.SubnetID, epoch abi.ChainEpoch, prev cid.Cid) *Checkpoint {
	return &Checkpoint{
		Data: CheckData{
			Source:    source.String(),
			Epoch:     int64(epoch),
			PrevCheck: prev,
		},
	}
}

func initCheckpointSchema() schema.Type {
	ts := schema.TypeSystem{}
	ts.Init()
	ts.Accumulate(schema.SpawnString("String"))
	ts.Accumulate(schema.SpawnInt("Int"))
	ts.Accumulate(schema.SpawnLink("Link"))
	ts.Accumulate(schema.SpawnBytes("Bytes"))

	ts.Accumulate(schema.SpawnStruct("ChildCheck",
		[]schema.StructField{
			schema.SpawnStructField("Source", "String", false, false),
			schema.SpawnStructField("Check", "Link", false, false),
		},
		schema.SpawnStructRepresentationMap(map[string]string{}),
	))
	ts.Accumulate(schema.SpawnList("List_ChildCheck", "ChildCheck", false))
	ts.Accumulate(schema.SpawnStruct("CheckData",
		[]schema.StructField{
			schema.SpawnStructField("Source", "String", false, false),
			schema.SpawnStructField("Epoch", "Int", false, false),
			schema.SpawnStructField("PrevCheck", "Link", false, false),
			schema.SpawnStructField("Childs", "List_ChildCheck", false, false),
		},
		schema.SpawnStructRepresentationMap(nil),
	))
	ts.Accumulate(schema.SpawnStruct("Checkpoint",
		[]schema.StructField{
			schema.SpawnStructField("Data", "CheckData", false, false),
			schema.SpawnStructField("Signature", "Bytes", false, false),
		},
		schema.SpawnStructRepresentationMap(nil),
	))

	return ts.TypeByName("Checkpoint")
}

// noStoreLinkSystem computes CIDs without persisting anything; the actor's
// own HAMT maps are the store of record for committed checkpoints.
func noStoreLinkSystem() ipld.LinkSystem {
	lsys := cidlink.DefaultLinkSystem()
	lsys.StorageWriteOpener = func(lctx ipld.LinkContext) (io.Writer, ipld.BlockWriteCommitter, error) {
		buf := bytes.NewBuffer(nil)
		return buf, func(lnk ipld.Link) error { return nil }, nil
	}
	return lsys
}

// MarshalCBOR encodes the checkpoint as DAG-CBOR.
func (c *Checkpoint) MarshalCBOR() ([]byte, error) {
	node := bindnode.Wrap(c, checkpointSchema)
	var buf bytes.Buffer
	if err := dagcbor.Encode(node.Representation(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCBOR decodes a DAG-CBOR encoded checkpoint.
func (c *Checkpoint) UnmarshalCBOR(b []byte) error {
	nb := bindnode.Prototype(c, checkpointSchema).NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(b)); err != nil {
		return err
	}
	n := bindnode.Unwrap(nb.Build())
	ch, ok := n.(*Checkpoint)
	if !ok {
		return xerrors.Errorf("unmarshaled node is not a Checkpoint")
	}
	*c = *ch
	return nil
}

// Cid returns the checkpoint's unique identifier, computed over its
// unsigned data only so that any number of validators signing the same
// commitment agree on its CID.
func (c *Checkpoint) Cid() (cid.Cid, error) {
	unsigned := &Checkpoint{Data: c.Data}
	lsys := noStoreLinkSystem()
	lnk, err := lsys.ComputeLink(Linkproto, bindnode.Wrap(unsigned, checkpointSchema))
	if err != nil {
		return cid.Undef, err
	}
	return lnk.(cidlink.Link).Cid, nil
}

// Epoch returns the checkpoint's epoch.
func (c *Checkpoint) Epoch() abi.ChainEpoch {
	return abi.ChainEpoch(c.Data.Epoch)
}

// Source returns the raw subnet path this checkpoint claims to originate
// from.
func (c *Checkpoint) Source() string {
	return c.Data.Source
}

// PrevCheck returns the CID of the checkpoint this one builds on.
func (c *Checkpoint) PrevCheck() cid.Cid {
	return c.Data.PrevCheck
}

// Equals reports whether two checkpoints carry the same unsigned data.
func (c *Checkpoint) Equals(other *Checkpoint) (bool, error) {
	c1, err := c.Cid()
	if err != nil {
		return false, err
	}
	c2, err := other.Cid()
	if err != nil {
		return false, err
	}
	return c1 == c2, nil
}
