package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/nidkg"
	"github.com/nesteddkg/tbls/poly"
	"github.com/nesteddkg/tbls/store"
)

func TestStoreAndRetrieveKeyPair(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	stream := curve.DefaultStream()
	pair, pop, err := nidkg.GenerateFSKeyPair(stream)
	require.NoError(t, err)

	require.NoError(t, s.PutKeyPair("0", store.NewKeyPair(pair, pop)))

	got := &store.KeyPair{}
	ok, err := s.GetKeyPair("0", got)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, pair.PublicKey.Equal(got.Pair.PublicKey))
	require.Equal(t, pop, got.PoP)

	missing := &store.KeyPair{}
	ok, err = s.GetKeyPair("missing", missing)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreAndRetrieveUnivariateShare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	g2 := curve.G2()
	stream := curve.DefaultStream()
	p := poly.Random(g2, 3, stream)
	share := &store.UnivariateShare{
		Index:     1,
		SecretKey: p.EvaluateAt(curve.XOfIndex(g2, uint32(1))),
		Public:    poly.FromPolynomial(g2, p),
	}

	require.NoError(t, s.PutUnivariateShare("1", share))

	got := &store.UnivariateShare{}
	ok, err := s.GetUnivariateShare("1", got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, share.Index, got.Index)
	require.True(t, share.SecretKey.Equal(got.SecretKey))
}

func TestReopenPersistsData(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	stream := curve.DefaultStream()
	pair, pop, err := nidkg.GenerateFSKeyPair(stream)
	require.NoError(t, err)
	require.NoError(t, s.PutKeyPair("a", store.NewKeyPair(pair, pop)))
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got := &store.KeyPair{}
	ok, err := reopened.GetKeyPair("a", got)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, pair.PublicKey.Equal(got.Pair.PublicKey))
}
