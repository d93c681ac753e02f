// Package bipoly implements the bivariate polynomial algebra and public
// coefficient grid used by the (n·m, t, t′) group hierarchy (§4.C). It has
// no counterpart in github.com/drand/kyber/share, which only models
// single-variable secret sharing; the 2-D generalization below is custom,
// built directly on kyber's Scalar/Point/Group primitives the same way
// package poly is.
package bipoly

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// Polynomial represents f(x,y) = Σ_i Σ_j Coeffs[i][j]·x^i·y^j, of bidegree
// (t, t′): t rows (outer, group axis), t′ columns (inner, member axis).
type Polynomial struct {
	scalarGroup kyber.Group
	Coeffs      [][]kyber.Scalar // Coeffs[i][j], i in [0,t), j in [0,t')
}

// Random samples a fresh bidegree-(t, tPrime) polynomial.
func Random(scalarGroup kyber.Group, t, tPrime int, stream cipher.Stream) *Polynomial {
	coeffs := make([][]kyber.Scalar, t)
	for i := range coeffs {
		row := make([]kyber.Scalar, tPrime)
		for j := range row {
			row[j] = curve.RandomScalar(scalarGroup, stream)
		}
		coeffs[i] = row
	}
	return &Polynomial{scalarGroup: scalarGroup, Coeffs: coeffs}
}

// FromCoefficients wraps an existing t x t′ coefficient matrix.
func FromCoefficients(scalarGroup kyber.Group, coeffs [][]kyber.Scalar) *Polynomial {
	return &Polynomial{scalarGroup: scalarGroup, Coeffs: coeffs}
}

// T returns the group-axis degree bound t (number of rows).
func (p *Polynomial) T() int { return len(p.Coeffs) }

// TPrime returns the member-axis degree bound t′ (number of columns).
func (p *Polynomial) TPrime() int {
	if len(p.Coeffs) == 0 {
		return 0
	}
	return len(p.Coeffs[0])
}

// rowAt evaluates row i of the matrix, Σ_j Coeffs[i][j]·y^j, via Horner.
func (p *Polynomial) rowAt(row []kyber.Scalar, y kyber.Scalar) kyber.Scalar {
	if len(row) == 0 {
		return p.scalarGroup.Scalar().Zero()
	}
	result := p.scalarGroup.Scalar().Set(row[len(row)-1])
	for j := len(row) - 2; j >= 0; j-- {
		result = p.scalarGroup.Scalar().Mul(result, y)
		result = p.scalarGroup.Scalar().Add(result, row[j])
	}
	return result
}

// EvaluateAt computes f(x,y): first reduce every row to a scalar via
// Horner-in-y, then combine the t row values via Horner-in-x.
func (p *Polynomial) EvaluateAt(x, y kyber.Scalar) kyber.Scalar {
	if len(p.Coeffs) == 0 {
		return p.scalarGroup.Scalar().Zero()
	}
	result := p.rowAt(p.Coeffs[len(p.Coeffs)-1], y)
	for i := len(p.Coeffs) - 2; i >= 0; i-- {
		result = p.scalarGroup.Scalar().Mul(result, x)
		rowVal := p.rowAt(p.Coeffs[i], y)
		result = p.scalarGroup.Scalar().Add(result, rowVal)
	}
	return result
}

// Secret returns f(0,0), the polynomial's whole-system secret.
func (p *Polynomial) Secret() kyber.Scalar {
	zero := p.scalarGroup.Scalar().Zero()
	return p.EvaluateAt(zero, zero)
}

// AddAssign adds other into p in place; shapes must match exactly.
func (p *Polynomial) AddAssign(other *Polynomial) error {
	if p.T() != other.T() || p.TPrime() != other.TPrime() {
		return fmt.Errorf("bipoly: %w: (%d,%d) vs (%d,%d)",
			errs.ErrSizeMismatch, p.T(), p.TPrime(), other.T(), other.TPrime())
	}
	for i := range p.Coeffs {
		for j := range p.Coeffs[i] {
			p.Coeffs[i][j] = p.scalarGroup.Scalar().Add(p.Coeffs[i][j], other.Coeffs[i][j])
		}
	}
	return nil
}

// Zeroize scrubs every coefficient and drops them.
func (p *Polynomial) Zeroize() {
	for _, row := range p.Coeffs {
		for _, c := range row {
			if c != nil {
				c.Zero()
			}
		}
	}
	p.Coeffs = nil
}
