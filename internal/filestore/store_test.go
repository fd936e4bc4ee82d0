package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write("report.txt", []byte("hello")))
	got, err := s.Read("report.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	require.NoError(t, s.Write("report.txt", []byte("hi")))
	got, err = s.Read("report.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), got)
}

func TestReadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = s.Read("does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidNames(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	for _, name := range []string{"", ".", "..", "../etc/passwd", `a\b`, "a\x00b"} {
		_, err := s.Read(name)
		require.ErrorIs(t, err, ErrInvalidName, "read %q", name)
		require.ErrorIs(t, s.Write(name, []byte("x")), ErrInvalidName, "write %q", name)
	}
}

func TestReadDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	s, err := New(dir)
	require.NoError(t, err)
	_, err = s.Read("sub")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err := New(f)
	require.Error(t, err)
	_, err = New(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestDirIsAbsolute(t *testing.T) {
	s, err := New(".")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(s.Dir()))
}
