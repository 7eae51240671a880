package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	docID := uuid.New()
	ctx := context.Background()

	key, err := store.Upload(ctx, docID, "fir copy.pdf", strings.NewReader("judgment body"))
	require.NoError(t, err)
	assert.Equal(t, "documents/"+docID.String()+"/fir_copy.pdf", key)

	reader, err := store.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "judgment body", string(body))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Download(ctx, key)
	assert.ErrorContains(t, err, "document not found")
}

func TestLocalStorageDeleteMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "documents/nope/missing.txt"))
}

func TestDocumentKeyStripsDirectoryTraversal(t *testing.T) {
	docID := uuid.New()
	key := documentKey(docID, "../../etc/passwd")

	assert.Equal(t, "documents/"+docID.String()+"/passwd", key)
}

func TestLocalStorageCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "docs")
	_, err := NewLocalStorage(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
