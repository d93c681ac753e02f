package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/errs"
)

func TestSaveLoadAddressesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "addresses.toml")
	want := []string{"10.0.0.1:9000", "10.0.0.2:9000", "10.0.0.3:9000"}

	require.NoError(t, SaveAddresses(path, want))
	got, err := LoadAddresses(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadAddressesPlainFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "addresses.txt")
	content := "# peers\n\n10.0.0.1:9000\n10.0.0.2:9000\n  \n# trailing comment\n10.0.0.3:9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := LoadAddresses(path)
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1:9000", "10.0.0.2:9000", "10.0.0.3:9000"}, got)
}

func TestLoadAddressesEmptyRejected(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[Other]\nName = \"unrelated\"\n"), 0o600))
	_, err := LoadAddresses(tomlPath)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrEmptyAddressList)

	plainPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("# only comments\n\n"), 0o600))
	_, err = LoadAddresses(plainPath)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrEmptyAddressList)
}
