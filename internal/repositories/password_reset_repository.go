package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workhub/internal/models"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (*models.PasswordReset, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	// MarkUsed fails with ErrNotFound when the reset was already consumed.
	MarkUsed(ctx context.Context, id int64, at time.Time) error
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (*models.PasswordReset, error) {
	const q = `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	pr := &models.PasswordReset{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	if err := r.DB.QueryRowContext(ctx, q, userID, tokenHash, expiresAt).Scan(&pr.ID, &pr.CreatedAt); err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *passwordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	const q = `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_resets
		WHERE token_hash = $1`
	pr := &models.PasswordReset{}
	var usedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, q, tokenHash).
		Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &usedAt, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if usedAt.Valid {
		pr.UsedAt = &usedAt.Time
	}
	return pr, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id int64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
