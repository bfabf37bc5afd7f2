package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	store, err := NewStore(&config.Config{
		Media: config.MediaConfig{
			MediaRoot: root,
			AssetsDir: filepath.Join(root, "assets"),
		},
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureDirs())
	require.NoError(t, os.MkdirAll(store.assetsDir, 0o755))
	return store
}

func TestTempAndFinalSameDir(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	tempPath, finalPath, err := store.TempAndFinal(CategoryVariants, ".mp4")
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(tempPath), filepath.Dir(finalPath))
	assert.True(t, strings.HasPrefix(filepath.Base(tempPath), tempPrefix))
	assert.True(t, strings.HasSuffix(finalPath, ".mp4"))

	_, _, err = store.TempAndFinal("elsewhere", ".mp4")
	require.Error(t, err)
}

func TestCommitMakesFileVisible(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	tempPath, finalPath, err := store.TempAndFinal(CategoryVariants, ".mp4")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tempPath, []byte("frames"), 0o644))

	require.NoError(t, store.Commit(tempPath, finalPath))

	_, err = os.Stat(tempPath)
	assert.True(t, os.IsNotExist(err))
	size, err := store.FileSize(finalPath)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
}

func TestSaveUpload(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	path, size, err := store.SaveUpload(strings.NewReader("payload"), ".mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
	assert.Equal(t, store.uploadsDir, filepath.Dir(path))

	// no temp files left behind
	entries, err := os.ReadDir(store.uploadsDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), tempPrefix))
	}
}

func TestValidateAssetPath(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	inside := filepath.Join(store.assetsDir, "logo.png")
	assert.NoError(t, store.ValidateAssetPath(inside))

	underMedia := filepath.Join(store.mediaRoot, "uploads", "clip.mp4")
	assert.NoError(t, store.ValidateAssetPath(underMedia))

	for _, path := range []string{
		"",
		"/etc/passwd",
		store.assetsDir + "/../../etc/passwd",
		// traversal is rejected even when it would resolve back inside
		store.assetsDir + "/sub/../logo.png",
	} {
		err := store.ValidateAssetPath(path)
		assert.True(t, errors.Is(err, ErrPathNotAllowed), "path %q", path)
	}
}

func TestSafeExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".mp4", SafeExt("Movie.MP4"))
	assert.Equal(t, ".bin", SafeExt("noextension"))
	assert.Equal(t, ".bin", SafeExt("weird.superlongext"))
}
