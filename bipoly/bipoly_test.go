package bipoly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
)

func TestEvaluateAgreesWithPublicCoefficients(t *testing.T) {
	g2 := curve.G2()
	p := Random(g2, 3, 5, curve.DefaultStream())
	pc := FromPolynomial(g2, p)

	for i := uint32(0); i < 4; i++ {
		for j := uint32(0); j < 6; j++ {
			x := curve.XOfIndex(g2, i)
			y := curve.XOfIndex(g2, j)
			got := pc.EvaluateAtG2(x, y)
			want := g2.Point().Mul(p.EvaluateAt(x, y), g2.Point().Base())
			require.True(t, want.Equal(got))
		}
	}
}

func TestDerivedPublicKeys(t *testing.T) {
	g2 := curve.G2()
	p := Random(g2, 2, 2, curve.DefaultStream())
	pc := FromPolynomial(g2, p)

	zero := g2.Scalar().Zero()
	require.True(t, pc.WholePublicKey().Equal(g2.Point().Mul(p.EvaluateAt(zero, zero), g2.Point().Base())))

	xi := curve.XOfIndex(g2, 3)
	require.True(t, pc.GroupPublicKey(xi).Equal(g2.Point().Mul(p.EvaluateAt(xi, zero), g2.Point().Base())))

	xj := curve.XOfIndex(g2, 7)
	require.True(t, pc.IndividualPublicKey(xi, xj).Equal(g2.Point().Mul(p.EvaluateAt(xi, xj), g2.Point().Base())))
}

func TestAddAssignSizeMismatch(t *testing.T) {
	g2 := curve.G2()
	a := Random(g2, 2, 3, curve.DefaultStream())
	b := Random(g2, 2, 4, curve.DefaultStream())
	require.Error(t, a.AddAssign(b))

	pcA := FromPolynomial(g2, Random(g2, 2, 3, curve.DefaultStream()))
	pcB := FromPolynomial(g2, Random(g2, 3, 3, curve.DefaultStream()))
	require.Error(t, pcA.AddAssign(pcB))
}

func TestAddAssignMatchesSummedPolynomial(t *testing.T) {
	g2 := curve.G2()
	a := Random(g2, 2, 3, curve.DefaultStream())
	b := Random(g2, 2, 3, curve.DefaultStream())
	pcA := FromPolynomial(g2, a)
	pcB := FromPolynomial(g2, b)

	require.NoError(t, a.AddAssign(b))
	require.NoError(t, pcA.AddAssign(pcB))

	summed := FromPolynomial(g2, a)
	for i := range summed.Commits {
		for j := range summed.Commits[i] {
			require.True(t, summed.Commits[i][j].Equal(pcA.Commits[i][j]))
		}
	}
}
