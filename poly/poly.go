// Package poly implements the univariate polynomial algebra and public
// coefficient commitments used by the flat (n,t) threshold scheme (§4.B).
package poly

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// Polynomial represents f(x) = Σ Coeffs[k]·x^k over Fr. Coeffs has exactly
// Threshold() entries; Coeffs[0] is the free coefficient (the group
// secret, once shared).
type Polynomial struct {
	scalarGroup kyber.Group
	Coeffs      []kyber.Scalar
}

// Random samples a fresh polynomial of degree t-1 (t uniform coefficients)
// from stream.
func Random(scalarGroup kyber.Group, t int, stream cipher.Stream) *Polynomial {
	coeffs := make([]kyber.Scalar, t)
	for i := range coeffs {
		coeffs[i] = curve.RandomScalar(scalarGroup, stream)
	}
	return &Polynomial{scalarGroup: scalarGroup, Coeffs: coeffs}
}

// FromCoefficients wraps an existing coefficient slice, e.g. after
// deserializing a dealing.
func FromCoefficients(scalarGroup kyber.Group, coeffs []kyber.Scalar) *Polynomial {
	return &Polynomial{scalarGroup: scalarGroup, Coeffs: coeffs}
}

// Threshold returns t, the number of coefficients (degree t-1).
func (p *Polynomial) Threshold() int { return len(p.Coeffs) }

// EvaluateAt computes f(x) via Horner's method.
func (p *Polynomial) EvaluateAt(x kyber.Scalar) kyber.Scalar {
	if len(p.Coeffs) == 0 {
		return p.scalarGroup.Scalar().Zero()
	}
	result := p.scalarGroup.Scalar().Set(p.Coeffs[len(p.Coeffs)-1])
	for i := len(p.Coeffs) - 2; i >= 0; i-- {
		result = p.scalarGroup.Scalar().Mul(result, x)
		result = p.scalarGroup.Scalar().Add(result, p.Coeffs[i])
	}
	return result
}

// Secret returns the free coefficient f(0), the polynomial's secret.
func (p *Polynomial) Secret() kyber.Scalar {
	return p.Coeffs[0]
}

// AddAssign adds other into p in place. Both must have the same threshold.
func (p *Polynomial) AddAssign(other *Polynomial) error {
	if len(p.Coeffs) != len(other.Coeffs) {
		return fmt.Errorf("poly: %w: %d coefficients vs %d", errs.ErrSizeMismatch, len(p.Coeffs), len(other.Coeffs))
	}
	for i := range p.Coeffs {
		p.Coeffs[i] = p.scalarGroup.Scalar().Add(p.Coeffs[i], other.Coeffs[i])
	}
	return nil
}

// Shares evaluates the polynomial at x_of_index(i) for every i in indices,
// producing the share each recipient holds.
func (p *Polynomial) Shares(g kyber.Group, indices []uint32) map[uint32]kyber.Scalar {
	out := make(map[uint32]kyber.Scalar, len(indices))
	for _, i := range indices {
		out[i] = p.EvaluateAt(curve.XOfIndex(g, i))
	}
	return out
}

// Zeroize scrubs every coefficient and drops them. Per §3's lifecycle, a
// dealer's polynomial is zeroized once its dealing has been produced.
func (p *Polynomial) Zeroize() {
	for _, c := range p.Coeffs {
		if c != nil {
			c.Zero()
		}
	}
	p.Coeffs = nil
}
