// Package participant defines the ParticipantId tagged union (§3, §9
// "Dynamic dispatch") shared by every protocol component: a flat index for
// the univariate (n,t) scheme, or a (group, member) pair for the bivariate
// (n·m, t, t′) hierarchy.
package participant

import (
	"fmt"

	"github.com/drand/kyber"
	"github.com/nesteddkg/tbls/internal/curve"
)

// ID is a totally-ordered participant identifier. It is either Univariate
// or Bivariate; never both. The zero value is the univariate participant 0,
// which is a valid (if unusual) identifier, so callers that need "no
// participant" should use a pointer or a separate ok bool rather than
// relying on a zero ID.
type ID struct {
	bivariate bool
	i         uint32 // flat index (univariate), or group index (bivariate)
	j         uint32 // intra-group index (bivariate only)
}

// Univariate returns the flat participant identifier i.
func Univariate(i uint32) ID {
	return ID{i: i}
}

// Bivariate returns the participant identifier for member j of group i.
func Bivariate(i, j uint32) ID {
	return ID{bivariate: true, i: i, j: j}
}

// IsBivariate reports whether id was built with Bivariate.
func (id ID) IsBivariate() bool { return id.bivariate }

// Index returns the flat index of a univariate ID. It panics if id is
// bivariate; callers must check IsBivariate first, matching the source's
// "sum type with two variants, no inheritance" design (§9).
func (id ID) Index() uint32 {
	if id.bivariate {
		panic("participant: Index called on a bivariate ID")
	}
	return id.i
}

// Group returns the group index of a bivariate ID. It panics on a
// univariate ID.
func (id ID) Group() uint32 {
	if !id.bivariate {
		panic("participant: Group called on a univariate ID")
	}
	return id.i
}

// Member returns the intra-group index of a bivariate ID. It panics on a
// univariate ID.
func (id ID) Member() uint32 {
	if !id.bivariate {
		panic("participant: Member called on a univariate ID")
	}
	return id.j
}

// SameGroup reports whether id and other are bivariate IDs belonging to the
// same group.
func (id ID) SameGroup(other ID) bool {
	return id.bivariate && other.bivariate && id.i == other.i
}

// Equal reports structural equality.
func (id ID) Equal(other ID) bool {
	return id.bivariate == other.bivariate && id.i == other.i && id.j == other.j
}

// Less provides the total order used wherever participant IDs must be
// sorted deterministically (dealing share matrices, transcript receiver
// lists). Univariate IDs sort before bivariate ones; bivariate IDs sort by
// (group, member).
func (id ID) Less(other ID) bool {
	if id.bivariate != other.bivariate {
		return !id.bivariate
	}
	if id.i != other.i {
		return id.i < other.i
	}
	return id.j < other.j
}

func (id ID) String() string {
	if id.bivariate {
		return fmt.Sprintf("(%d,%d)", id.i, id.j)
	}
	return fmt.Sprintf("%d", id.i)
}

// X evaluates the canonical x_of_index injection for id in group g,
// following §4.A: for a bivariate ID this is the evaluation point along the
// group axis; callers that need the member axis use XMember.
func (id ID) X(g kyber.Group) kyber.Scalar {
	if id.bivariate {
		return curve.XOfIndex(g, id.i)
	}
	return curve.XOfIndex(g, id.i)
}

// XMember evaluates x_of_index at the intra-group index of a bivariate ID.
// It panics on a univariate ID.
func (id ID) XMember(g kyber.Group) kyber.Scalar {
	return curve.XOfIndex(g, id.Member())
}
