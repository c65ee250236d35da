// Package hierarchical implements the subnet-path algebra used to name
// subnets within the hierarchical-consensus tree rooted at "/root".
//
// The parent chain and its Subnet Coordinator Actor are external
// collaborators; this package only carries the identity scheme that lets a
// subnet actor compute and recognize its own ID.
package hierarchical

import (
	"strings"

	address "github.com/filecoin-project/go-address"
	"golang.org/x/xerrors"
)

// RootSubnetID is the ID of the root of the hierarchy.
const RootSubnetID = SubnetID("/root")

// SubnetID is an ordered "/"-separated path of actor addresses rooted at
// "/root". Concatenating a parent ID with a child actor address yields the
// child's ID.
type SubnetID string

// NewSubnetID builds the ID of the subnet actor deployed at addr under parent.
func NewSubnetID(parent SubnetID, addr address.Address) SubnetID {
	return SubnetID(string(parent) + "/" + addr.String())
}

// String returns the path representation of the ID.
func (id SubnetID) String() string {
	return string(id)
}

// Parent returns the ID of the subnet one level up the hierarchy, and false
// if id is already the root.
func (id SubnetID) Parent() (SubnetID, bool) {
	s := string(id)
	i := strings.LastIndex(s, "/")
	if i <= 0 {
		return "", false
	}
	return SubnetID(s[:i]), true
}

// Actor returns the address of the subnet actor that this ID terminates in.
func (id SubnetID) Actor() (address.Address, error) {
	s := string(id)
	i := strings.LastIndex(s, "/")
	if i < 0 || i == len(s)-1 {
		return address.Undef, xerrors.Errorf("subnet ID %q has no actor component", s)
	}
	return address.NewFromString(s[i+1:])
}

// IsRoot reports whether id names the root of the hierarchy.
func (id SubnetID) IsRoot() bool {
	return id == RootSubnetID
}
