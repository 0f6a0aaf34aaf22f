package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/akinalp/tovi/middleware"
	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
	"github.com/akinalp/tovi/services"
)

// TaskHandler, task CRUD ve attachment endpoint'lerini yönetir.
// Tüm endpoint'ler Auth middleware'inin arkasındadır — kullanıcı her
// zaman context'ten gelir.
type TaskHandler struct {
	taskService   services.TaskService
	uploadService services.UploadService
	maxUploadSize int64
}

// NewTaskHandler, constructor.
func NewTaskHandler(taskService services.TaskService, uploadService services.UploadService, maxUploadSize int64) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		uploadService: uploadService,
		maxUploadSize: maxUploadSize,
	}
}

// Create, POST /api/v1/tasks — yeni task oluşturur.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, task)
}

// List, GET /api/v1/tasks — kullanıcının tüm task'ları (attachment'larıyla).
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	tasks, err := h.taskService.GetAll(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	pkg.JSON(w, http.StatusOK, tasks)
}

// Get, GET /api/v1/tasks/{id} — tek task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, task)
}

// Update, PUT /api/v1/tasks/{id} — partial update.
// Body'de gönderilmeyen alanlar mevcut değerinde kalır.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Update(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, task)
}

// Delete, DELETE /api/v1/tasks/{id} — task ve attachment'larını siler.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.taskService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messageResponse{Message: "task deleted successfully"})
}

// Upload, POST /api/v1/tasks/{id}/attachments — multipart dosya yükleme.
// Form field adı: "file".
func (h *TaskHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	// MaxBytesReader, body'yi toplam limitte keser — devasa upload'lar
	// memory'yi şişirmeden reddedilir. Multipart overhead payı için +1MB.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	attachment, err := h.uploadService.Attach(
		r.Context(), user.ID, r.PathValue("id"),
		header.Filename, contentType, header.Size, file,
	)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, attachment)
}

// Download, GET /api/v1/tasks/{id}/attachments/{attachmentID} — dosya indirme.
func (h *TaskHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	attachment, err := h.uploadService.Get(
		r.Context(), user.ID, r.PathValue("id"), r.PathValue("attachmentID"),
	)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	http.ServeFile(w, r, attachment.FilePath)
}

// DeleteAttachment, DELETE /api/v1/tasks/{id}/attachments/{attachmentID}.
func (h *TaskHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	err := h.uploadService.Remove(
		r.Context(), user.ID, r.PathValue("id"), r.PathValue("attachmentID"),
	)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messageResponse{Message: "attachment deleted successfully"})
}
