package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"workhub/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListDigestRecipients(ctx context.Context) ([]models.User, error)
	UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userSelect = `
SELECT id, name, email, password_hash, role_id,
       COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, FALSE), COALESCE(notify_email, FALSE)
FROM users`

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.TelegramChatID, &u.NotifyTelegram, &u.NotifyEmail)
	return u, err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE LOWER(email) = $1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListDigestRecipients returns users that opted into at least one digest channel.
func (r *userRepository) ListDigestRecipients(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, userSelect+`
		WHERE (notify_telegram AND telegram_chat_id IS NOT NULL AND telegram_chat_id <> 0)
		   OR (notify_email AND email <> '')
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) error {
	var chatID any
	if prefs.TelegramChatID != 0 {
		chatID = prefs.TelegramChatID
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET telegram_chat_id = $1, notify_telegram = $2, notify_email = $3
		WHERE id = $4`, chatID, prefs.NotifyTelegram, prefs.NotifyEmail, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
