package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocal(t *testing.T) (*LocalStorage, string) {
	logging.InitLogger()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalUploadDownload(t *testing.T) {
	store, _ := setupLocal(t)
	ctx := context.Background()

	path, err := store.Upload(ctx, "covers/abc.png", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "covers/abc.png", path)

	data, err := store.Download(ctx, "covers/abc.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestLocalUploadOverwrites(t *testing.T) {
	store, _ := setupLocal(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "covers/abc.png", []byte("one"))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "covers/abc.png", []byte("two"))
	require.NoError(t, err)

	data, err := store.Download(ctx, "covers/abc.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestLocalDownloadMissing(t *testing.T) {
	store, _ := setupLocal(t)
	_, err := store.Download(context.Background(), "covers/missing.png")
	assert.True(t, apperrors.IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestLocalDeleteIdempotent(t *testing.T) {
	store, _ := setupLocal(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "covers/abc.png", []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "covers/abc.png"))
	// Deleting an absent object is not an error.
	require.NoError(t, store.Delete(ctx, "covers/abc.png"))

	exists, err := store.Exists(ctx, "covers/abc.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalDeleteRemovesEmptyParent(t *testing.T) {
	store, dir := setupLocal(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "covers/abc.png", []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "covers/abc.png"))

	_, err = os.Stat(filepath.Join(dir, "covers"))
	assert.True(t, os.IsNotExist(err), "empty covers dir should be removed")
}

func TestLocalDeleteKeepsNonEmptyParent(t *testing.T) {
	store, dir := setupLocal(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "covers/a.png", []byte("a"))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "covers/b.png", []byte("b"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "covers/a.png"))

	_, err = os.Stat(filepath.Join(dir, "covers", "b.png"))
	assert.NoError(t, err, "sibling object must survive parent cleanup attempt")
}

func TestLocalPathsStayUnderRoot(t *testing.T) {
	store, dir := setupLocal(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, "../escape.png", []byte("x"))
	require.NoError(t, err)

	// The traversal segment is neutralized, so the object lands inside root.
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.png"))
	assert.True(t, os.IsNotExist(err))
}
