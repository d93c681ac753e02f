package poly

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/errs"
)

// PublicCoefficients is the G2 commitment A_k = g2^(a_k) to every
// coefficient of a Polynomial (§4.B).
type PublicCoefficients struct {
	g2      kyber.Group
	Commits []kyber.Point
}

// FromPolynomial commits to every coefficient of p in g2.
func FromPolynomial(g2 kyber.Group, p *Polynomial) *PublicCoefficients {
	base := g2.Point().Base()
	commits := make([]kyber.Point, len(p.Coeffs))
	for i, c := range p.Coeffs {
		commits[i] = g2.Point().Mul(c, base)
	}
	return &PublicCoefficients{g2: g2, Commits: commits}
}

// FromCommits wraps an existing commitment slice, e.g. after deserializing
// a dealing.
func FromCommits(g2 kyber.Group, commits []kyber.Point) *PublicCoefficients {
	return &PublicCoefficients{g2: g2, Commits: commits}
}

// Clone returns a PublicCoefficients with its own Commits backing array, so
// folding other dealers' commitments into the copy via AddAssign cannot
// mutate pc's own slice.
func (pc *PublicCoefficients) Clone() *PublicCoefficients {
	commits := make([]kyber.Point, len(pc.Commits))
	copy(commits, pc.Commits)
	return &PublicCoefficients{g2: pc.g2, Commits: commits}
}

// Threshold returns t, the number of commitments.
func (pc *PublicCoefficients) Threshold() int { return len(pc.Commits) }

// EvaluateAtG2 computes g2^f(x) via Horner's method performed directly on
// the commitment points: g2^(a·x+b) == (g2^a)^x · g2^b, so the same Horner
// recurrence used for EvaluateAt carries over to the exponent.
func (pc *PublicCoefficients) EvaluateAtG2(x kyber.Scalar) kyber.Point {
	if len(pc.Commits) == 0 {
		return pc.g2.Point().Null()
	}
	result := pc.g2.Point().Set(pc.Commits[len(pc.Commits)-1])
	for i := len(pc.Commits) - 2; i >= 0; i-- {
		result = pc.g2.Point().Mul(x, result)
		result = pc.g2.Point().Add(result, pc.Commits[i])
	}
	return result
}

// AddAssign adds other's commitments elementwise into pc (I3: public
// coefficients of summed polynomials equal the sum of public coefficients).
func (pc *PublicCoefficients) AddAssign(other *PublicCoefficients) error {
	if len(pc.Commits) != len(other.Commits) {
		return fmt.Errorf("poly: %w: %d commitments vs %d", errs.ErrSizeMismatch, len(pc.Commits), len(other.Commits))
	}
	for i := range pc.Commits {
		pc.Commits[i] = pc.g2.Point().Add(pc.Commits[i], other.Commits[i])
	}
	return nil
}

// Sample is one (x, g1^f(x)) pair fed to Lagrange interpolation in G1.
type Sample struct {
	X kyber.Scalar
	Y kyber.Point
}

// InterpolateG1 recovers g1^f(0) from samples via Lagrange interpolation at
// x=0 (I5). It fails with ErrInsufficientShares if fewer than threshold
// samples are given, and ErrDuplicateIndex if any two samples share an x.
// Only the first `threshold` samples are used; extra samples are ignored,
// matching the "first t to arrive win" ordering rule of §5.
func InterpolateG1(g1, scalarGroup kyber.Group, samples []Sample, threshold int) (kyber.Point, error) {
	if len(samples) < threshold {
		return nil, fmt.Errorf("poly: %w: got %d, need %d", errs.ErrInsufficientShares, len(samples), threshold)
	}
	sel := samples[:threshold]
	for i := range sel {
		for j := i + 1; j < len(sel); j++ {
			if sel[i].X.Equal(sel[j].X) {
				return nil, errs.ErrDuplicateIndex
			}
		}
	}

	result := g1.Point().Null()
	for i, si := range sel {
		num := scalarGroup.Scalar().One()
		den := scalarGroup.Scalar().One()
		for j, sj := range sel {
			if i == j {
				continue
			}
			num = scalarGroup.Scalar().Mul(num, sj.X)
			diff := scalarGroup.Scalar().Sub(sj.X, si.X)
			den = scalarGroup.Scalar().Mul(den, diff)
		}
		lambda := scalarGroup.Scalar().Mul(num, scalarGroup.Scalar().Inv(den))
		result = g1.Point().Add(result, g1.Point().Mul(lambda, si.Y))
	}
	return result, nil
}

// LagrangeAt0 recovers f(0) in Fr from t distinct (x_i, f(x_i)) pairs (I4).
// It shares InterpolateG1's duplicate/threshold checks but operates on bare
// scalars. Nothing else in this module calls it; NI-DKG key recovery goes
// through nidkg.DecryptShare instead.
func LagrangeAt0(scalarGroup kyber.Group, xs []kyber.Scalar, ys []kyber.Scalar, threshold int) (kyber.Scalar, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("poly: %w: %d x values vs %d y values", errs.ErrSizeMismatch, len(xs), len(ys))
	}
	if len(xs) < threshold {
		return nil, fmt.Errorf("poly: %w: got %d, need %d", errs.ErrInsufficientShares, len(xs), threshold)
	}
	xs, ys = xs[:threshold], ys[:threshold]
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i].Equal(xs[j]) {
				return nil, errs.ErrDuplicateIndex
			}
		}
	}

	result := scalarGroup.Scalar().Zero()
	for i := range xs {
		num := scalarGroup.Scalar().One()
		den := scalarGroup.Scalar().One()
		for j := range xs {
			if i == j {
				continue
			}
			num = scalarGroup.Scalar().Mul(num, xs[j])
			diff := scalarGroup.Scalar().Sub(xs[j], xs[i])
			den = scalarGroup.Scalar().Mul(den, diff)
		}
		lambda := scalarGroup.Scalar().Mul(num, scalarGroup.Scalar().Inv(den))
		term := scalarGroup.Scalar().Mul(lambda, ys[i])
		result = scalarGroup.Scalar().Add(result, term)
	}
	return result, nil
}
