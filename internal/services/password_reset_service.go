package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"workhub/internal/repositories"
	"workhub/internal/utils"
)

const (
	resetTokenTTL     = time.Hour
	minPasswordLength = 8
)

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string, now time.Time) error
	ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	repo     repositories.PasswordResetRepository
	emails   EmailService
	auth     AuthService
	newToken func(int) (string, error)
}

func NewPasswordResetService(userRepo repositories.UserRepository, repo repositories.PasswordResetRepository, emails EmailService, auth AuthService) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		repo:     repo,
		emails:   emails,
		auth:     auth,
		newToken: utils.NewToken,
	}
}

// RequestReset mails a reset code. Unknown emails succeed silently.
func (s *passwordResetService) RequestReset(ctx context.Context, email string, now time.Time) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[password-reset] request for unknown email=%q", email)
			return nil
		}
		return err
	}

	token, err := s.newToken(32)
	if err != nil {
		return err
	}
	if _, err := s.repo.Create(ctx, user.ID, utils.HashToken(token), now.Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("store reset: %w", err)
	}
	if err := s.emails.SendPasswordReset(user.Email, token); err != nil {
		log.Printf("[password-reset][err] send to user=%d: %v", user.ID, err)
	}
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and password are required", ErrInvalidInput)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	pr, err := s.repo.GetByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired token", ErrInvalidInput)
		}
		return err
	}
	if pr.UsedAt != nil || now.After(pr.ExpiresAt) {
		return fmt.Errorf("%w: invalid or expired token", ErrInvalidInput)
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.MarkUsed(ctx, pr.ID, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired token", ErrInvalidInput)
		}
		return err
	}
	return s.userRepo.UpdatePassword(ctx, pr.UserID, hash)
}
