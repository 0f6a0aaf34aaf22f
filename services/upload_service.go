package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/repository"
)

// allowedContentTypes, attachment olarak kabul edilen MIME tipleri.
// HTML/SVG gibi tarayıcıda script koşturabilecek tipler bilinçli olarak
// listede YOK.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// UploadService, task attachment dosyalarının yüklenmesi ve okunması için interface.
// Sahiplik kontrolü her operasyonda yapılır: attachment'a, task'ının sahibi
// olmayan kullanıcı erişemez.
type UploadService interface {
	// Attach, dosyayı diske yazar ve metadata kaydını oluşturur.
	Attach(ctx context.Context, userID, taskID, filename, contentType string, size int64, r io.Reader) (*models.Attachment, error)

	// Get, attachment metadata'sını döner (FilePath dahil — handler dosyayı
	// bu path'ten servis eder).
	Get(ctx context.Context, userID, taskID, attachmentID string) (*models.Attachment, error)

	// Remove, attachment kaydını ve diskteki dosyayı siler.
	Remove(ctx context.Context, userID, taskID, attachmentID string) error
}

// uploadService, UploadService implementasyonu.
type uploadService struct {
	taskRepo       repository.TaskRepository
	attachmentRepo repository.AttachmentRepository
	uploadDir      string
	maxSize        int64
}

// NewUploadService, constructor. uploadDir yoksa oluşturur.
func NewUploadService(
	taskRepo repository.TaskRepository,
	attachmentRepo repository.AttachmentRepository,
	uploadDir string,
	maxSize int64,
) (UploadService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &uploadService{
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		uploadDir:      uploadDir,
		maxSize:        maxSize,
	}, nil
}

func (s *uploadService) Attach(ctx context.Context, userID, taskID, filename, contentType string, size int64, r io.Reader) (*models.Attachment, error) {
	// Sahiplik: task çağıranın değilse ErrNotFound döner, upload başlamaz.
	if _, err := s.taskRepo.GetByID(ctx, userID, taskID); err != nil {
		return nil, err
	}

	if size > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", pkg.ErrBadRequest, s.maxSize)
	}

	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: content type %q is not allowed", pkg.ErrBadRequest, contentType)
	}

	// Diskteki isim random prefix'lidir: aynı isimli iki upload birbirini
	// ezmez, path traversal denemeleri sanitize ile etkisizleşir.
	safeName := sanitizeFilename(filename)
	diskName := fmt.Sprintf("%s_%s", uuid.NewString(), safeName)
	filePath := filepath.Join(s.uploadDir, diskName)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer f.Close()

	// Beyan edilen size'a güvenilmez — LimitReader gerçek boyutu sınırlar.
	// maxSize+1 byte gelirse dosya limiti aşmış demektir.
	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write attachment file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(filePath)
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", pkg.ErrBadRequest, s.maxSize)
	}

	attachment := &models.Attachment{
		TaskID:      taskID,
		Filename:    safeName,
		FilePath:    filePath,
		ContentType: contentType,
		FileSize:    written,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		os.Remove(filePath) // DB kaydı yoksa dosya da kalmasın
		return nil, err
	}

	return attachment, nil
}

func (s *uploadService) Get(ctx context.Context, userID, taskID, attachmentID string) (*models.Attachment, error) {
	if _, err := s.taskRepo.GetByID(ctx, userID, taskID); err != nil {
		return nil, err
	}

	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	// Attachment başka bir task'a aitse URL'deki task sahipli olsa bile
	// erişim yok.
	if attachment.TaskID != taskID {
		return nil, pkg.ErrNotFound
	}

	return attachment, nil
}

func (s *uploadService) Remove(ctx context.Context, userID, taskID, attachmentID string) error {
	attachment, err := s.Get(ctx, userID, taskID, attachmentID)
	if err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		return err
	}

	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[upload] failed to remove attachment file path=%s: %v", attachment.FilePath, err)
	}

	return nil
}

// sanitizeFilename, yüklenen dosya adını diske yazılabilir hale getirir:
// path bileşenleri atılır, şüpheli karakterler alt çizgiye çevrilir.
func sanitizeFilename(filename string) string {
	// filepath.Base "../../etc/passwd" → "passwd"
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.' || ch == '-' || ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		return "file"
	}
	return sanitized
}
