package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcorp/claims-service/internal/config"
)

func TestDiskStoreStore(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(config.StorageConfig{
		BaseDir:       dir,
		PublicBaseURL: "http://localhost:8080/files/",
	})

	ref, err := store.Store(context.Background(), "t-1", Upload{
		FileName: "laudo.pdf",
		Content:  []byte("conteudo"),
	})
	require.NoError(t, err)

	assert.Equal(t, "laudo.pdf", ref.Name)
	assert.Equal(t, int64(8), ref.SizeBytes)
	assert.Contains(t, ref.URL, "http://localhost:8080/files/t-1/")
	assert.Contains(t, ref.URL, "laudo.pdf")

	entries, err := os.ReadDir(filepath.Join(dir, "t-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDiskStoreSanitizesNames(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(config.StorageConfig{BaseDir: dir, PublicBaseURL: "http://x/files"})

	ref, err := store.Store(context.Background(), "t-1", Upload{
		FileName: "../relatório final.pdf",
		Content:  []byte("x"),
	})
	require.NoError(t, err)
	assert.NotContains(t, ref.Name, "..")
	assert.NotContains(t, ref.Name, "/")
	assert.NotContains(t, ref.Name, " ")
}

func TestDiskStoreRejectsEmptyName(t *testing.T) {
	store := NewDiskStore(config.StorageConfig{BaseDir: t.TempDir(), PublicBaseURL: "http://x/files"})

	_, err := store.Store(context.Background(), "t-1", Upload{FileName: "   ", Content: []byte("x")})
	assert.Error(t, err)
}
