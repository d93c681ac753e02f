package dealing

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/poly"
)

// Dealing is one dealer's univariate contribution: a public-coefficient
// commitment plus one secret share per recipient, indexed 0..n-1 (§3).
type Dealing struct {
	Public *poly.PublicCoefficients
	Shares []kyber.Scalar // ascending recipient index, length n
}

// NewDealing evaluates p at every recipient index 0..n-1 and commits to p.
func NewDealing(scalarGroup, g2 kyber.Group, p *poly.Polynomial, n int) *Dealing {
	shares := make([]kyber.Scalar, n)
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	m := p.Shares(scalarGroup, indices)
	for i := 0; i < n; i++ {
		shares[i] = m[uint32(i)]
	}
	return &Dealing{Public: poly.FromPolynomial(g2, p), Shares: shares}
}

// Serialize encodes the dealing per §4.D: t G2 commitments (ascending
// coefficient index) followed by n Fr shares (ascending recipient index).
func (d *Dealing) Serialize() ([]byte, error) {
	coeffBytes, err := SerializePoints(d.Public.Commits)
	if err != nil {
		return nil, err
	}
	shareBytes, err := SerializeScalars(d.Shares)
	if err != nil {
		return nil, err
	}
	return append(coeffBytes, shareBytes...), nil
}

// Deserialize parses data as a univariate dealing with t coefficients and n
// shares, both supplied by the caller (the codec carries no self-describing
// shape header, per §4.D: "the deserializer must be told" the expected
// shape).
func Deserialize(scalarGroup, g2 kyber.Group, data []byte, t, n int) (*Dealing, error) {
	pointWidth := g2.Point().MarshalSize()
	coeffLen := pointWidth * t
	if len(data) < coeffLen {
		return nil, fmt.Errorf("dealing: %w: expected at least %d bytes of coefficients, got %d",
			errs.ErrMalformedDealing, coeffLen, len(data))
	}
	commits, err := DeserializePoints(g2, data[:coeffLen], t)
	if err != nil {
		return nil, err
	}
	shares, err := DeserializeScalars(scalarGroup, data[coeffLen:], n)
	if err != nil {
		return nil, err
	}
	return &Dealing{Public: poly.FromCommits(g2, commits), Shares: shares}, nil
}
