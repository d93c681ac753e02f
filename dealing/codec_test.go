package dealing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/poly"
)

func TestUnivariateDealingRoundTrip(t *testing.T) {
	g2 := curve.G2()
	scalarGroup := g2
	p := poly.Random(scalarGroup, 3, curve.DefaultStream())
	const n = 5
	d := NewDealing(scalarGroup, g2, p, n)

	raw, err := d.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(scalarGroup, g2, raw, 3, n)
	require.NoError(t, err)
	require.Equal(t, len(d.Shares), len(got.Shares))
	for i := range d.Shares {
		require.True(t, d.Shares[i].Equal(got.Shares[i]))
	}
	require.Equal(t, d.Public.Threshold(), got.Public.Threshold())
	for i := 0; i < d.Public.Threshold(); i++ {
		x := curve.XOfIndex(scalarGroup, uint32(i))
		require.True(t, d.Public.EvaluateAtG2(x).Equal(got.Public.EvaluateAtG2(x)))
	}
}

func TestUnivariateDealingMalformed(t *testing.T) {
	g2 := curve.G2()
	scalarGroup := g2
	p := poly.Random(scalarGroup, 2, curve.DefaultStream())
	d := NewDealing(scalarGroup, g2, p, 3)
	raw, err := d.Serialize()
	require.NoError(t, err)

	_, err = Deserialize(scalarGroup, g2, raw[:len(raw)-1], 2, 3)
	require.Error(t, err)
}

func TestBivariateDealingRoundTrip(t *testing.T) {
	g2 := curve.G2()
	scalarGroup := g2
	const t_, tPrime, n, m = 2, 3, 4, 5
	p := bipoly.Random(scalarGroup, t_, tPrime, curve.DefaultStream())
	d := NewBiDealing(scalarGroup, g2, p, n, m)

	raw, err := d.Serialize()
	require.NoError(t, err)

	got, err := DeserializeBivariate(scalarGroup, g2, raw, t_, tPrime, n, m)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			require.True(t, d.Shares[i][j].Equal(got.Shares[i][j]))
		}
	}
	for i := 0; i < t_; i++ {
		for j := 0; j < tPrime; j++ {
			require.True(t, d.Public.Commits[i][j].Equal(got.Public.Commits[i][j]))
		}
	}
}

func TestBivariateDealingMalformed(t *testing.T) {
	g2 := curve.G2()
	scalarGroup := g2
	p := bipoly.Random(scalarGroup, 2, 2, curve.DefaultStream())
	d := NewBiDealing(scalarGroup, g2, p, 3, 3)
	raw, err := d.Serialize()
	require.NoError(t, err)

	_, err = DeserializeBivariate(scalarGroup, g2, raw[:len(raw)-1], 2, 2, 3, 3)
	require.Error(t, err)
}
