package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/repository"
)

// maxTasksPerUser: kullanıcı başına task tavanı. Tavana ulaşan kullanıcı
// yeni task oluşturamaz — önce mevcutlardan silmesi gerekir.
const maxTasksPerUser = 50

// TaskService, task iş mantığı için interface.
// Tüm operasyonlar çağıran kullanıcının ID'siyle scope'lanır.
type TaskService interface {
	Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error)
	GetAll(ctx context.Context, userID string) ([]models.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, req *models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// taskService, TaskService implementasyonu.
type taskService struct {
	taskRepo       repository.TaskRepository
	attachmentRepo repository.AttachmentRepository
}

// NewTaskService, constructor.
func NewTaskService(taskRepo repository.TaskRepository, attachmentRepo repository.AttachmentRepository) TaskService {
	return &taskService{
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
	}
}

func (s *taskService) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	count, err := s.taskRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxTasksPerUser {
		return nil, fmt.Errorf("%w: task limit reached (%d)", pkg.ErrBadRequest, maxTasksPerUser)
	}

	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Attachments: []models.Attachment{},
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) GetAll(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Attachment'lar task başına ayrı sorgu yerine tek batch ile yüklenir.
	taskIDs := make([]string, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}

	byTask, err := s.attachmentRepo.GetByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].Attachments = byTask[tasks[i].ID]
		if tasks[i].Attachments == nil {
			tasks[i].Attachments = []models.Attachment{} // JSON'da null değil [] görünsün
		}
	}

	return tasks, nil
}

func (s *taskService) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	task.Attachments = attachments

	return task, nil
}

func (s *taskService) Update(ctx context.Context, userID, taskID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.IsCompleted != nil && *req.IsCompleted != task.IsCompleted {
		task.IsCompleted = *req.IsCompleted
		if task.IsCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			// Tamamlanmışlık geri alınırsa timestamp de temizlenir.
			task.CompletedAt = nil
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID, taskID)
}

func (s *taskService) Delete(ctx context.Context, userID, taskID string) error {
	// Önce attachment dosya yolları alınır — DB satırları FK cascade ile
	// silinecek, diskteki dosyaları ancak şimdi bilebiliriz.
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.GetByTaskID(ctx, task.ID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return err
	}

	// Dosya silme best-effort: başarısız olsa da task silinmiş durumda,
	// artık dosya sadece disk alanı kaplar.
	for _, a := range attachments {
		if err := os.Remove(a.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("[task] failed to remove attachment file path=%s: %v", a.FilePath, err)
		}
	}

	return nil
}
