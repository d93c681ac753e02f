package bipoly

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/errs"
)

// PublicCoefficients is the t x t′ G2 commitment grid A[i][j] = g2^(a[i][j])
// to a bivariate Polynomial (§4.C).
type PublicCoefficients struct {
	g2      kyber.Group
	Commits [][]kyber.Point // Commits[i][j]
}

// FromPolynomial commits to every coefficient of p in g2.
func FromPolynomial(g2 kyber.Group, p *Polynomial) *PublicCoefficients {
	base := g2.Point().Base()
	commits := make([][]kyber.Point, len(p.Coeffs))
	for i, row := range p.Coeffs {
		crow := make([]kyber.Point, len(row))
		for j, c := range row {
			crow[j] = g2.Point().Mul(c, base)
		}
		commits[i] = crow
	}
	return &PublicCoefficients{g2: g2, Commits: commits}
}

// FromCommits wraps an existing t x t′ commitment grid.
func FromCommits(g2 kyber.Group, commits [][]kyber.Point) *PublicCoefficients {
	return &PublicCoefficients{g2: g2, Commits: commits}
}

// Clone returns a PublicCoefficients with its own Commits grid, so folding
// other dealers' commitments into the copy via AddAssign cannot mutate pc's
// own rows.
func (pc *PublicCoefficients) Clone() *PublicCoefficients {
	commits := make([][]kyber.Point, len(pc.Commits))
	for i, row := range pc.Commits {
		crow := make([]kyber.Point, len(row))
		copy(crow, row)
		commits[i] = crow
	}
	return &PublicCoefficients{g2: pc.g2, Commits: commits}
}

// T returns the group-axis degree bound t (number of rows).
func (pc *PublicCoefficients) T() int { return len(pc.Commits) }

// TPrime returns the member-axis degree bound t′ (number of columns).
func (pc *PublicCoefficients) TPrime() int {
	if len(pc.Commits) == 0 {
		return 0
	}
	return len(pc.Commits[0])
}

func (pc *PublicCoefficients) rowAt(row []kyber.Point, y kyber.Scalar) kyber.Point {
	if len(row) == 0 {
		return pc.g2.Point().Null()
	}
	result := pc.g2.Point().Set(row[len(row)-1])
	for j := len(row) - 2; j >= 0; j-- {
		result = pc.g2.Point().Mul(y, result)
		result = pc.g2.Point().Add(result, row[j])
	}
	return result
}

// EvaluateAtG2 computes g2^f(x,y), mirroring Polynomial.EvaluateAt's nested
// Horner recurrence directly on commitment points.
func (pc *PublicCoefficients) EvaluateAtG2(x, y kyber.Scalar) kyber.Point {
	if len(pc.Commits) == 0 {
		return pc.g2.Point().Null()
	}
	result := pc.rowAt(pc.Commits[len(pc.Commits)-1], y)
	for i := len(pc.Commits) - 2; i >= 0; i-- {
		result = pc.g2.Point().Mul(x, result)
		rowVal := pc.rowAt(pc.Commits[i], y)
		result = pc.g2.Point().Add(result, rowVal)
	}
	return result
}

// WholePublicKey returns the group-of-groups public key, evaluate_at_g2(0,0).
func (pc *PublicCoefficients) WholePublicKey() kyber.Point {
	zero := pc.zeroScalar()
	return pc.EvaluateAtG2(zero, zero)
}

// GroupPublicKey returns group i's public key, evaluate_at_g2(x_of_index(i), 0).
func (pc *PublicCoefficients) GroupPublicKey(xi kyber.Scalar) kyber.Point {
	return pc.EvaluateAtG2(xi, pc.zeroScalar())
}

// IndividualPublicKey returns the public key of member j of group i,
// evaluate_at_g2(x_of_index(i), x_of_index(j)).
func (pc *PublicCoefficients) IndividualPublicKey(xi, xj kyber.Scalar) kyber.Point {
	return pc.EvaluateAtG2(xi, xj)
}

func (pc *PublicCoefficients) zeroScalar() kyber.Scalar {
	// Any scalar-capable group works here since Fr is shared across G1/G2/GT;
	// we only need the additive identity, not a point in pc.g2 itself.
	return pc.g2.Scalar().Zero()
}

// AddAssign adds other's commitments elementwise into pc; shapes must match.
func (pc *PublicCoefficients) AddAssign(other *PublicCoefficients) error {
	if pc.T() != other.T() || pc.TPrime() != other.TPrime() {
		return fmt.Errorf("bipoly: %w: (%d,%d) vs (%d,%d)",
			errs.ErrSizeMismatch, pc.T(), pc.TPrime(), other.T(), other.TPrime())
	}
	for i := range pc.Commits {
		for j := range pc.Commits[i] {
			pc.Commits[i][j] = pc.g2.Point().Add(pc.Commits[i][j], other.Commits[i][j])
		}
	}
	return nil
}
