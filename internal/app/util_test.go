package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")

	require.NoError(t, AtomicWriteFile(path, 0644, []byte("first")))
	require.NoError(t, AtomicWriteFile(path, 0644, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestEnsureDirKeepsExistingMode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shared")
	require.NoError(t, os.Mkdir(dir, 0700))
	require.NoError(t, os.Chmod(dir, 0777))

	require.NoError(t, EnsureDir(dir, 0755))
	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0777), fi.Mode().Perm())

	created := filepath.Join(dir, "a", "b")
	require.NoError(t, EnsureDir(created, 0750))
	fi, err = os.Stat(created)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), fi.Mode().Perm())
}

func TestEnsureDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.Error(t, EnsureDir(path, 0755))
}

func TestAtomicWriteFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, AtomicWriteFile(path, 0644, []byte("x")))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), fi.Mode().Perm())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "ab****gh", Mask("abcdefgh"))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "1.5 KiB", HumanSize(1536))
	assert.Equal(t, "2.0 MiB", HumanSize(2*1024*1024))
}

func TestRandToken(t *testing.T) {
	a, err := RandToken(16)
	require.NoError(t, err)
	b, err := RandToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
