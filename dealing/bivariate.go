package dealing

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// BiDealing is one dealer's bivariate contribution: a t x t′ public
// coefficient grid plus an n x m grid of secret shares, Shares[i][j] going to
// group i member j (§4.C, §4.D).
type BiDealing struct {
	Public *bipoly.PublicCoefficients
	Shares [][]kyber.Scalar // Shares[i][j], i in [0,n), j in [0,m)
}

// NewBiDealing evaluates p at every (group, member) pair 0..n-1, 0..m-1 and
// commits to p.
func NewBiDealing(scalarGroup, g2 kyber.Group, p *bipoly.Polynomial, n, m int) *BiDealing {
	shares := make([][]kyber.Scalar, n)
	for i := 0; i < n; i++ {
		xi := curve.XOfIndex(scalarGroup, uint32(i))
		row := make([]kyber.Scalar, m)
		for j := 0; j < m; j++ {
			xj := curve.XOfIndex(scalarGroup, uint32(j))
			row[j] = p.EvaluateAt(xi, xj)
		}
		shares[i] = row
	}
	return &BiDealing{Public: bipoly.FromPolynomial(g2, p), Shares: shares}
}

// Serialize encodes the dealing per §4.D: t·t′ G2 commitments in row-major
// order (group axis outer, member axis inner) followed by n·m Fr shares,
// also row-major.
func (d *BiDealing) Serialize() ([]byte, error) {
	flatCommits := make([]kyber.Point, 0, d.Public.T()*d.Public.TPrime())
	for _, row := range d.Public.Commits {
		flatCommits = append(flatCommits, row...)
	}
	coeffBytes, err := SerializePoints(flatCommits)
	if err != nil {
		return nil, err
	}

	flatShares := make([]kyber.Scalar, 0, len(d.Shares)*groupWidth(d.Shares))
	for _, row := range d.Shares {
		flatShares = append(flatShares, row...)
	}
	shareBytes, err := SerializeScalars(flatShares)
	if err != nil {
		return nil, err
	}
	return append(coeffBytes, shareBytes...), nil
}

func groupWidth(shares [][]kyber.Scalar) int {
	if len(shares) == 0 {
		return 0
	}
	return len(shares[0])
}

// DeserializeBivariate parses data as a bivariate dealing. The caller must
// supply the bidegree (t, tPrime) of the commitment grid and the group
// layout (n groups, m members each); the wire format carries no shape
// header, per §4.D: "the deserializer must be told (group_size_m, t′) to
// reshape".
func DeserializeBivariate(scalarGroup, g2 kyber.Group, data []byte, t, tPrime, n, m int) (*BiDealing, error) {
	pointWidth := g2.Point().MarshalSize()
	coeffCount := t * tPrime
	coeffLen := pointWidth * coeffCount
	if len(data) < coeffLen {
		return nil, fmt.Errorf("dealing: %w: expected at least %d bytes of coefficients, got %d",
			errs.ErrMalformedDealing, coeffLen, len(data))
	}
	flatCommits, err := DeserializePoints(g2, data[:coeffLen], coeffCount)
	if err != nil {
		return nil, err
	}
	commits := make([][]kyber.Point, t)
	for i := 0; i < t; i++ {
		commits[i] = flatCommits[i*tPrime : (i+1)*tPrime]
	}

	flatShares, err := DeserializeScalars(scalarGroup, data[coeffLen:], n*m)
	if err != nil {
		return nil, err
	}
	shares := make([][]kyber.Scalar, n)
	for i := 0; i < n; i++ {
		shares[i] = flatShares[i*m : (i+1)*m]
	}

	return &BiDealing{Public: bipoly.FromCommits(g2, commits), Shares: shares}, nil
}
