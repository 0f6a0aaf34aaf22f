package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Task, bir yapılacak iş kaydını temsil eder. Her task tek bir kullanıcıya
// aittir; kullanıcı silinirse task'ları da silinir (FK cascade).
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	IsCompleted bool         `json:"is_completed"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment, bir task'a eklenmiş dosyanın kaydı.
// FilePath diskteki gerçek konumdur — API response'a sızdırılmaz.
type Attachment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Filename    string    `json:"filename"`
	FilePath    string    `json:"-"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTaskRequest, task oluşturma isteği.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// Validate, CreateTaskRequest geçerlilik kontrolü.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 100 {
		return fmt.Errorf("title must be at most 100 characters")
	}
	return nil
}

// UpdateTaskRequest, task güncelleme isteği.
// Pointer field'lar "gönderilmedi" ile "boş gönderildi"yi ayırt eder —
// nil olan alanlar mevcut değerinde bırakılır (partial update).
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted *bool      `json:"is_completed"`
}

// Validate, UpdateTaskRequest geçerlilik kontrolü.
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if *r.Title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if utf8.RuneCountInString(*r.Title) > 100 {
			return fmt.Errorf("title must be at most 100 characters")
		}
	}
	return nil
}
