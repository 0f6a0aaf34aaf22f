// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern: veritabanı işlemlerini (CRUD) soyutlayan tasarım
// kalıbı. Service katmanı doğrudan SQL yazmaz — interface üzerinden çalışır.
//
// Neden interface?
//  1. Test: mock repository ile DB olmadan test edilebilir
//  2. Esneklik: SQLite → PostgreSQL geçişi sadece yeni implementasyon ister
//  3. Dependency Inversion: service, concrete struct'a değil interface'e bağımlı
//
// Go'da interface implicit'tir — struct, interface'deki tüm method'ları
// implement ediyorsa otomatik olarak o interface'i sağlar.
package repository

import (
	"context"

	"github.com/akinalp/tovi/models"
)

// UserRepository, hesap veritabanı işlemleri için interface.
type UserRepository interface {
	// Create, yeni hesabı kaydeder. Email çakışmasında pkg.ErrAlreadyExists döner —
	// benzersizlik DB'deki unique index ile garanti edilir, eşzamanlı signup
	// yarışında yalnızca biri kazanır.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByVerificationToken, token'ı birebir eşleşen DOĞRULANMAMIŞ hesabı döner.
	// Doğrulanmış hesapların token'ı zaten NULL'dur — ikinci kullanım eşleşmez.
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)

	// MarkVerified, hesabı doğrulanmış işaretler ve verification token ile
	// expiry'yi temizler (tek kullanımlık token sözleşmesi).
	MarkVerified(ctx context.Context, userID string) error
}
