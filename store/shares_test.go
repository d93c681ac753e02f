package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/poly"
)

func TestSaveLoadUnivariateShare(t *testing.T) {
	g2 := curve.G2()
	stream := curve.DefaultStream()
	p := poly.Random(g2, 3, stream)
	pub := poly.FromPolynomial(g2, p)
	x := curve.XOfIndex(g2, uint32(2))

	want := &UnivariateShare{
		Index:     2,
		SecretKey: p.EvaluateAt(x),
		Public:    pub,
		RunID:     uuid.New(),
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "share.toml")
	require.NoError(t, SaveUnivariateShare(path, want))

	got, err := LoadUnivariateShare(path)
	require.NoError(t, err)
	require.Equal(t, want.Index, got.Index)
	require.Equal(t, want.RunID, got.RunID)
	require.True(t, want.SecretKey.Equal(got.SecretKey))
	require.Equal(t, want.Public.Threshold(), got.Public.Threshold())
	for i := range want.Public.Commits {
		require.True(t, want.Public.Commits[i].Equal(got.Public.Commits[i]))
	}
}

func TestSaveLoadBivariateShare(t *testing.T) {
	g2 := curve.G2()
	stream := curve.DefaultStream()
	p := bipoly.Random(g2, 2, 3, stream)
	pub := bipoly.FromPolynomial(g2, p)
	xi := curve.XOfIndex(g2, uint32(0))
	xj := curve.XOfIndex(g2, uint32(1))

	want := &BivariateShare{
		Group:     0,
		Member:    1,
		SecretKey: p.EvaluateAt(xi, xj),
		Public:    pub,
		RunID:     uuid.New(),
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bishare.toml")
	require.NoError(t, SaveBivariateShare(path, want))

	got, err := LoadBivariateShare(path)
	require.NoError(t, err)
	require.Equal(t, want.Group, got.Group)
	require.Equal(t, want.Member, got.Member)
	require.Equal(t, want.RunID, got.RunID)
	require.True(t, want.SecretKey.Equal(got.SecretKey))
	require.Equal(t, want.Public.T(), got.Public.T())
	require.Equal(t, want.Public.TPrime(), got.Public.TPrime())
	for i := 0; i < want.Public.T(); i++ {
		for j := 0; j < want.Public.TPrime(); j++ {
			require.True(t, want.Public.Commits[i][j].Equal(got.Public.Commits[i][j]))
		}
	}
}
