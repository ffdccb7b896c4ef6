package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workhub/internal/models"
	"workhub/internal/repositories"
)

type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) (*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// Authenticate never tells the caller whether the email or the password was wrong.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := s.auth.CheckPassword(strings.TrimSpace(u.PasswordHash), strings.TrimSpace(password)); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateNotifications stores the digest channels. Telegram cannot be enabled
// without a chat id.
func (s *userService) UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) (*models.User, error) {
	if prefs.NotifyTelegram && prefs.TelegramChatID == 0 {
		return nil, fmt.Errorf("%w: telegram_chat_id is required to enable telegram", ErrInvalidInput)
	}
	if err := s.repo.UpdateNotifications(ctx, id, prefs); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}
