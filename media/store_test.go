package media

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypePhoto:     "photos",
		AssetTypeDocument:  "documents",
		AssetTypeThumbnail: "thumbnails",
	})
	require.NoError(t, err)
	return store
}

func TestSaveGeneratesUUIDName(t *testing.T) {
	store := newStore(t)

	relPath, err := store.Save(AssetTypePhoto, "42", "", ".jpg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "photos/42/"))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))

	reader, info, err := store.Get(relPath)
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.EqualValues(t, 4, info.Size())
}

func TestSaveRejectsTraversalHint(t *testing.T) {
	store := newStore(t)

	_, err := store.Save(AssetTypePhoto, "../../etc", "", ".jpg", strings.NewReader("data"))
	assert.Error(t, err)
}

func TestGetFullPathRejectsTraversal(t *testing.T) {
	store := newStore(t)

	_, err := store.GetFullPath("../outside.txt")
	assert.Error(t, err)
}

func TestGetFullPathRejectsSiblingDirectory(t *testing.T) {
	base := t.TempDir()
	uploads := filepath.Join(base, "uploads")
	store, err := NewLocalStorage(uploads, map[AssetType]string{AssetTypePhoto: "photos"})
	require.NoError(t, err)

	// "<base>-x" shares the uploads prefix but lives outside it
	_, err = store.GetFullPath("../uploads-x/secret.txt")
	assert.Error(t, err)
}

func TestSaveRejectsSiblingDirHint(t *testing.T) {
	store := newStore(t)

	// escapes the photos dir into a sibling that still shares its prefix
	_, err := store.Save(AssetTypePhoto, "../photos-x", "", ".jpg", strings.NewReader("data"))
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newStore(t)

	relPath, err := store.Save(AssetTypeDocument, "1", "", ".pdf", strings.NewReader("doc"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(relPath))
	assert.NoError(t, store.Delete(relPath), "deleting an already-missing file is not an error")
}
