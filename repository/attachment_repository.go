package repository

import (
	"context"

	"github.com/akinalp/tovi/models"
)

// AttachmentRepository, task attachment kayıtları için interface.
// Dosyanın kendisi diskte durur; burada yalnızca metadata yönetilir.
type AttachmentRepository interface {
	Create(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, attachmentID string) (*models.Attachment, error)
	GetByTaskID(ctx context.Context, taskID string) ([]models.Attachment, error)

	// GetByTaskIDs, birden fazla task'ın attachment'larını TEK sorguda yükler.
	// Liste endpoint'inde task başına ayrı sorgu (N+1) yapmamak için.
	GetByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]models.Attachment, error)

	Delete(ctx context.Context, attachmentID string) error
}
