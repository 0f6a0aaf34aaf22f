package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/tovi/database"
	"github.com/akinalp/tovi/models"
	"github.com/akinalp/tovi/pkg"
)

// sqliteTokenRepo, TokenRepository interface'inin SQLite implementasyonu.
//
// Diğer repo'lardan farklı olarak TxQuerier değil *sql.DB tutar:
// CreateRefreshToken ve RotateRefreshToken kendi transaction'larını
// database.WithTx ile açar — caller'ın tx yönetmesine gerek kalmaz.
type sqliteTokenRepo struct {
	db *sql.DB
}

// NewSQLiteTokenRepo, constructor.
func NewSQLiteTokenRepo(db *sql.DB) TokenRepository {
	return &sqliteTokenRepo{db: db}
}

func (r *sqliteTokenRepo) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := deleteExpiredForUser(ctx, tx, t.UserID); err != nil {
			return err
		}
		return insertRefreshToken(ctx, tx, t)
	})
}

func (r *sqliteTokenRepo) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, is_revoked, revoked_at, created_at
		FROM refresh_tokens WHERE token = ?`

	t := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.IsRevoked, &t.RevokedAt, &t.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return t, nil
}

func (r *sqliteTokenRepo) ValidateRefreshToken(ctx context.Context, token string) (bool, error) {
	t, err := r.GetRefreshToken(ctx, token)
	if errors.Is(err, pkg.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Expiry karşılaştırması Go tarafında — SQL string karşılaştırmasının
	// timezone tuzaklarından kaçınılır.
	return t.Valid(time.Now()), nil
}

func (r *sqliteTokenRepo) RotateRefreshToken(ctx context.Context, oldID string, t *models.RefreshToken) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE refresh_tokens
			SET is_revoked = 1, revoked_at = CURRENT_TIMESTAMP
			WHERE id = ? AND is_revoked = 0`, oldID)
		if err != nil {
			return fmt.Errorf("failed to revoke old refresh token: %w", err)
		}

		// Eski token bu arada başka bir istek tarafından revoke edildiyse
		// rotasyon kaybedilmiş bir yarıştır — yeni token da yazılmaz.
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: refresh token already revoked", pkg.ErrUnauthorized)
		}

		if err := deleteExpiredForUser(ctx, tx, t.UserID); err != nil {
			return err
		}

		return insertRefreshToken(ctx, tx, t)
	})
}

func (r *sqliteTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET is_revoked = 1, revoked_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND is_revoked = 0`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return nil
}

func (r *sqliteTokenRepo) BlacklistAccessToken(ctx context.Context, tokenString string, expiresAt time.Time) error {
	// INSERT OR IGNORE: token zaten blacklist'teyse no-op — idempotent.
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO blacklisted_tokens (id, token, expires_at)
		VALUES (lower(hex(randomblob(8))), ?, ?)`, tokenString, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to blacklist access token: %w", err)
	}
	return nil
}

func (r *sqliteTokenRepo) IsAccessTokenBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT expires_at FROM blacklisted_tokens WHERE token = ?`, tokenString,
	).Scan(&expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	// Kayıtlı expiry geçtiyse satırın güvenlik değeri yok — imza/expiry
	// kontrolü token'ı zaten reddeder. Sweep silene kadar false döneriz.
	return time.Now().Before(expiresAt), nil
}

func (r *sqliteTokenRepo) DeleteExpired(ctx context.Context) error {
	// Eşik CURRENT_TIMESTAMP DEĞİL Go tarafından bind edilen UTC değerdir:
	// driver time.Time'ı offset'li metin olarak yazar, SQLite'ın UTC
	// string'iyle karşılaştırmak UTC olmayan host'larda hâlâ geçerli
	// satırları süpürür. Yazma tarafı da UTC normalize edildiği için iki
	// taraf aynı formatta karşılaştırılır.
	now := time.Now().UTC()

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, now); err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM blacklisted_tokens WHERE expires_at < ?`, now); err != nil {
		return fmt.Errorf("failed to delete expired blacklisted tokens: %w", err)
	}

	return nil
}

// insertRefreshToken, yeni refresh token satırını yazar (tx içinden çağrılır).
// expires_at UTC normalize edilir — sweep'teki string karşılaştırması ancak
// tüm satırlar tek formattayken doğru çalışır.
func insertRefreshToken(ctx context.Context, tx *sql.Tx, t *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?)
		RETURNING id, created_at`

	err := tx.QueryRowContext(ctx, query, t.UserID, t.Token, t.ExpiresAt.UTC()).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

// deleteExpiredForUser, tek kullanıcının süresi dolmuş refresh token'larını
// siler. Issuance transaction'ının parçasıdır — sınırlı temizlik, full sweep
// için DeleteExpired kullanılır. Eşik DeleteExpired'daki gibi UTC bind edilir.
func deleteExpiredForUser(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = ? AND expires_at < ?`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to clean up expired refresh tokens: %w", err)
	}
	return nil
}
