package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func withConfigDir(t *testing.T, dir string, err error) {
	t.Helper()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, err }
	t.Cleanup(func() { userConfigDir = orig })
}

func TestEnsureUserDataDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	withConfigDir(t, tmp, nil)

	got, err := EnsureUserDataDir("assetgate")
	require.NoError(t, err)

	want := filepath.Join(tmp, "assetgate")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}
}

func TestEnsureUserDataDir_Idempotent(t *testing.T) {
	withConfigDir(t, t.TempDir(), nil)

	first, err := EnsureUserDataDir("assetgate")
	require.NoError(t, err)
	second, err := EnsureUserDataDir("assetgate")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureUserDataDir_ConfigDirError(t *testing.T) {
	withConfigDir(t, "", errors.New("$HOME is not defined"))

	_, err := EnsureUserDataDir("assetgate")
	require.Error(t, err)
	require.Contains(t, err.Error(), "user config dir")
}

func TestEnsureUserDataDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	withConfigDir(t, tmp, nil)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "assetgate"), []byte("x"), 0o600))

	_, err := EnsureUserDataDir("assetgate")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteFileAtomic_WritesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "two", string(got))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
