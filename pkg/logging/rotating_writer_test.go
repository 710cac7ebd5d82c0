package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	w, err := NewRotatingFile(fs, "/logs/access.log", 16)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	_, err = w.Write([]byte("0123456789\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("abcdefghij\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("klmnopqrst\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(fs, "/logs/access.log")
	require.NoError(t, err)
	assert.Equal(t, "klmnopqrst\n", string(data))

	first, err := afero.ReadFile(fs, "/logs/old/access.log.20260301-123000")
	require.NoError(t, err)
	assert.Equal(t, "0123456789\n", string(first))

	second, err := afero.ReadFile(fs, "/logs/old/access.log.20260301-123000.1")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij\n", string(second))

	_, err = w.Write([]byte("late"))
	assert.Error(t, err, "writes after close fail")
}

func TestRotatingFile_Appends(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logs/app.log", []byte("existing\n"), 0644))

	w, err := NewRotatingFile(fs, "/logs/app.log", 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("more\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(fs, "/logs/app.log")
	require.NoError(t, err)
	assert.Equal(t, "existing\nmore\n", string(data))

	exists, err := afero.DirExists(fs, "/logs/old")
	require.NoError(t, err)
	assert.False(t, exists, "unbounded files never rotate")
}

func TestRotatingFile_OversizedOnOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logs/app.log", []byte("0123456789"), 0644))

	w, err := NewRotatingFile(fs, "/logs/app.log", 5)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(fs, "/logs/app.log")
	require.NoError(t, err)
	assert.Empty(t, data)

	files, err := afero.ReadDir(fs, "/logs/old")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRotatingFile_RotateFailure(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	// A regular file where old/ should go makes every rotation fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old"), []byte("x"), 0644))

	t.Run("oversized on open", func(t *testing.T) {
		require.NoError(t, os.WriteFile(logPath, []byte("0123456789abcdef"), 0644))

		var err error
		assert.NotPanics(t, func() {
			_, err = NewRotatingFile(afero.NewOsFs(), logPath, 4)
		})
		assert.Error(t, err)

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef", string(data), "original log is left in place")
	})

	t.Run("write keeps appending", func(t *testing.T) {
		require.NoError(t, os.WriteFile(logPath, nil, 0644))

		w, err := NewRotatingFile(afero.NewOsFs(), logPath, 16)
		require.NoError(t, err)

		for _, line := range []string{"first line\n", "second line\n", "third line\n"} {
			n, err := w.Write([]byte(line))
			require.NoError(t, err)
			assert.Equal(t, len(line), n)
		}
		require.NoError(t, w.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Equal(t, "first line\nsecond line\nthird line\n", string(data))
	})
}
