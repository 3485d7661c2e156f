package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalSource(t *testing.T) {
	t.Parallel()

	t.Run("should resolve an absolute root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src, err := NewLocalSource(dir)

		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(src.Root()))
		assert.NoError(t, src.Close())
	})

	t.Run("should reject missing directories", func(t *testing.T) {
		t.Parallel()

		_, err := NewLocalSource(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("should reject files", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "a.js")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := NewLocalSource(file)
		assert.Error(t, err)
	})
}

func TestLocalSource_OpenAndWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test", "a.js"), []byte("before"), 0o600))

	src, err := NewLocalSource(dir)
	require.NoError(t, err)
	ctx := context.Background()

	r, err := src.Open(ctx, "test/a.js")
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "before", string(content))

	require.NoError(t, src.WriteFile(ctx, "test/a.js", []byte("after")))
	written, err := os.ReadFile(filepath.Join(dir, "test", "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "after", string(written))

	info, err := os.Stat(filepath.Join(dir, "test", "a.js"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLocalSource_RejectsEscapes(t *testing.T) {
	t.Parallel()

	src, err := NewLocalSource(t.TempDir())
	require.NoError(t, err)

	_, err = src.Open(context.Background(), "../outside.js")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	err = src.WriteFile(context.Background(), "../outside.js", nil)
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestLocalSource_HonorsCancellation(t *testing.T) {
	t.Parallel()

	src, err := NewLocalSource(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = src.Open(ctx, "a.js")
	assert.ErrorIs(t, err, context.Canceled)
}
