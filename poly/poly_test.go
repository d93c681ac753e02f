package poly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
)

func TestEvaluateAgreesWithPublicCoefficients(t *testing.T) {
	g2 := curve.G2()
	p := Random(g2, 5, curve.DefaultStream())
	pc := FromPolynomial(g2, p)

	for i := uint32(0); i < 10; i++ {
		x := curve.XOfIndex(g2, i)
		got := pc.EvaluateAtG2(x)
		want := g2.Point().Mul(p.EvaluateAt(x), g2.Point().Base())
		require.True(t, want.Equal(got))
	}
}

func TestAddAssignDistributesOverCoefficients(t *testing.T) {
	g2 := curve.G2()
	a := Random(g2, 4, curve.DefaultStream())
	b := Random(g2, 4, curve.DefaultStream())

	pcA := FromPolynomial(g2, a)
	pcB := FromPolynomial(g2, b)

	require.NoError(t, a.AddAssign(b))
	require.NoError(t, pcA.AddAssign(pcB))

	summed := FromPolynomial(g2, a)
	for i := range summed.Commits {
		require.True(t, summed.Commits[i].Equal(pcA.Commits[i]))
	}
}

func TestAddAssignSizeMismatch(t *testing.T) {
	g2 := curve.G2()
	a := Random(g2, 4, curve.DefaultStream())
	b := Random(g2, 5, curve.DefaultStream())
	require.Error(t, a.AddAssign(b))
}

func TestInterpolateG1RecoversSecret(t *testing.T) {
	g1, g2 := curve.G1(), curve.G2()
	const threshold = 5
	p := Random(g2, threshold, curve.DefaultStream())

	samples := make([]Sample, 0, threshold+3)
	for i := uint32(0); i < uint32(threshold+3); i++ {
		x := curve.XOfIndex(g2, i)
		y := g1.Point().Mul(p.EvaluateAt(x), g1.Point().Base())
		samples = append(samples, Sample{X: x, Y: y})
	}

	got, err := InterpolateG1(g1, g2, samples, threshold)
	require.NoError(t, err)
	want := g1.Point().Mul(p.Secret(), g1.Point().Base())
	require.True(t, want.Equal(got))
}

func TestInterpolateG1InsufficientShares(t *testing.T) {
	g1, g2 := curve.G1(), curve.G2()
	const threshold = 5
	p := Random(g2, threshold, curve.DefaultStream())

	samples := make([]Sample, 0, threshold-1)
	for i := uint32(0); i < uint32(threshold-1); i++ {
		x := curve.XOfIndex(g2, i)
		y := g1.Point().Mul(p.EvaluateAt(x), g1.Point().Base())
		samples = append(samples, Sample{X: x, Y: y})
	}

	_, err := InterpolateG1(g1, g2, samples, threshold)
	require.Error(t, err)
}

func TestInterpolateG1DuplicateIndex(t *testing.T) {
	g1, g2 := curve.G1(), curve.G2()
	const threshold = 3
	p := Random(g2, threshold, curve.DefaultStream())

	x0 := curve.XOfIndex(g2, 0)
	y0 := g1.Point().Mul(p.EvaluateAt(x0), g1.Point().Base())
	x1 := curve.XOfIndex(g2, 1)
	y1 := g1.Point().Mul(p.EvaluateAt(x1), g1.Point().Base())

	samples := []Sample{{X: x0, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y0}}
	_, err := InterpolateG1(g1, g2, samples, threshold)
	require.Error(t, err)
}
