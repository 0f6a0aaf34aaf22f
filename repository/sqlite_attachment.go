package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
)

// sqliteAttachmentRepo, AttachmentRepository interface'inin SQLite implementasyonu.
type sqliteAttachmentRepo struct {
	db database.TxQuerier
}

// NewSQLiteAttachmentRepo, constructor.
func NewSQLiteAttachmentRepo(db database.TxQuerier) AttachmentRepository {
	return &sqliteAttachmentRepo{db: db}
}

func (r *sqliteAttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	query := `
		INSERT INTO task_attachments (id, task_id, filename, file_path, content_type, file_size)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.TaskID, a.Filename, a.FilePath, a.ContentType, a.FileSize,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

func (r *sqliteAttachmentRepo) GetByID(ctx context.Context, attachmentID string) (*models.Attachment, error) {
	query := `
		SELECT id, task_id, filename, file_path, content_type, file_size, created_at
		FROM task_attachments WHERE id = ?`

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, attachmentID).Scan(
		&a.ID, &a.TaskID, &a.Filename, &a.FilePath, &a.ContentType, &a.FileSize, &a.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return a, nil
}

func (r *sqliteAttachmentRepo) GetByTaskID(ctx context.Context, taskID string) ([]models.Attachment, error) {
	byTask, err := r.GetByTaskIDs(ctx, []string{taskID})
	if err != nil {
		return nil, err
	}
	return byTask[taskID], nil
}

func (r *sqliteAttachmentRepo) GetByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]models.Attachment, error) {
	result := make(map[string][]models.Attachment)
	if len(taskIDs) == 0 {
		return result, nil
	}

	// IN listesi için placeholder'lar dinamik üretilir — değerler yine
	// parametre olarak geçer, string birleştirmeyle DEĞİL.
	placeholders := strings.Repeat("?,", len(taskIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT id, task_id, filename, file_path, content_type, file_size, created_at
		FROM task_attachments WHERE task_id IN (%s) ORDER BY created_at`, placeholders)

	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.Filename, &a.FilePath, &a.ContentType, &a.FileSize, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		result[a.TaskID] = append(result[a.TaskID], a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}

	return result, nil
}

func (r *sqliteAttachmentRepo) Delete(ctx context.Context, attachmentID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM task_attachments WHERE id = ?`, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}
