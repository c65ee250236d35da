package hierarchical

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/stretchr/testify/require"
)

func TestNewSubnetID(t *testing.T) {
	addr, err := address.NewIDAddress(100)
	require.NoError(t, err)

	id := NewSubnetID(RootSubnetID, addr)
	require.Equal(t, "/root/"+addr.String(), id.String())

	actor, err := id.Actor()
	require.NoError(t, err)
	require.Equal(t, addr, actor)

	parent, ok := id.Parent()
	require.True(t, ok)
	require.Equal(t, RootSubnetID, parent)
}

func TestRootHasNoParent(t *testing.T) {
	_, ok := RootSubnetID.Parent()
	require.False(t, ok)
	require.True(t, RootSubnetID.IsRoot())
}

func TestChildSubnetID(t *testing.T) {
	parentActor, err := address.NewIDAddress(100)
	require.NoError(t, err)
	parent := NewSubnetID(RootSubnetID, parentActor)

	childActor, err := address.NewIDAddress(200)
	require.NoError(t, err)
	child := NewSubnetID(parent, childActor)

	require.Equal(t, "/root/"+parentActor.String()+"/"+childActor.String(), child.String())
	gotParent, ok := child.Parent()
	require.True(t, ok)
	require.Equal(t, parent, gotParent)
}
