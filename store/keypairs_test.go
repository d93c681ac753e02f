package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/nidkg"
)

func TestSaveLoadKeyPair(t *testing.T) {
	stream := curve.DefaultStream()
	pair, pop, err := nidkg.GenerateFSKeyPair(stream)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "keypair.toml")
	require.NoError(t, SaveKeyPair(path, pair, pop))

	gotPair, gotPoP, err := LoadKeyPair(path)
	require.NoError(t, err)
	require.True(t, pair.SecretKey.Equal(gotPair.SecretKey))
	require.True(t, pair.PublicKey.Equal(gotPair.PublicKey))
	require.Equal(t, pop, gotPoP)
}
