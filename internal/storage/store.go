package storage

import (
	"context"

	"github.com/rcorp/claims-service/internal/domain"
)

// Upload is an attachment payload handed to the store.
type Upload struct {
	FileName string
	Content  []byte
}

// FileStore persists transition attachments. A failed Store call is
// recoverable per file: the caller logs it and skips the attachment
// without aborting the transition.
type FileStore interface {
	Store(ctx context.Context, ticketID string, upload Upload) (domain.StoredAttachment, error)
}
