package repository

import (
	"context"

	"github.com/akinalp/tovi/models"
)

// TaskRepository, task veritabanı işlemleri için interface.
//
// Tüm okuma/yazma işlemleri owner-scoped'tır: sorgular user_id koşulu
// taşır, bir kullanıcı başka kullanıcının task'ına ERİŞEMEZ. Sahiplik
// kontrolü ayrı bir SELECT ile değil sorgunun kendisiyle yapılır —
// "yok" ile "senin değil" aynı pkg.ErrNotFound olarak döner.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, userID, taskID string) (*models.Task, error)
	GetAllByUser(ctx context.Context, userID string) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, taskID string) error

	// CountByUser, kullanıcının task sayısını döner (task limiti kontrolü).
	CountByUser(ctx context.Context, userID string) (int, error)
}
