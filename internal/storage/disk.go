package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rcorp/claims-service/internal/config"
	"github.com/rcorp/claims-service/internal/domain"
)

// DiskStore writes attachments under a base directory and serves them
// back under a configured public base URL. Stored names are prefixed
// with a random id so repeated uploads of the same file never collide.
type DiskStore struct {
	baseDir string
	baseURL string
}

// NewDiskStore constructs the store.
func NewDiskStore(cfg config.StorageConfig) *DiskStore {
	return &DiskStore{
		baseDir: cfg.BaseDir,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Store writes one upload and returns its reference triple.
func (s *DiskStore) Store(ctx context.Context, ticketID string, upload Upload) (domain.StoredAttachment, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredAttachment{}, err
	}
	name := sanitizeFileName(upload.FileName)
	if name == "" {
		return domain.StoredAttachment{}, errors.New("empty file name")
	}

	dir := filepath.Join(s.baseDir, ticketID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StoredAttachment{}, fmt.Errorf("create attachment dir: %w", err)
	}

	key := uuid.NewString()[:8] + "_" + name
	path := filepath.Join(dir, key)
	if err := os.WriteFile(path, upload.Content, 0o644); err != nil {
		return domain.StoredAttachment{}, fmt.Errorf("write attachment: %w", err)
	}

	return domain.StoredAttachment{
		Name:      name,
		URL:       fmt.Sprintf("%s/%s/%s", s.baseURL, ticketID, key),
		SizeBytes: int64(len(upload.Content)),
	}, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
