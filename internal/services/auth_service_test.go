package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workhub/internal/middleware"
	"workhub/internal/models"
	"workhub/internal/repositories"
)

func TestAuthService_IssueAccessToken(t *testing.T) {
	secret := []byte("test-secret")
	svc := NewAuthService(secret, 15*time.Minute)
	now := time.Now()

	signed, exp, err := svc.IssueAccessToken(&models.User{ID: 42, RoleID: 10}, now)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if !exp.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("IssueAccessToken() exp = %v", exp)
	}

	claims := &middleware.Claims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) { return secret, nil })
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 || claims.RoleID != 10 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestAuthService_Passwords(t *testing.T) {
	svc := NewAuthService(nil, time.Minute)
	hash, err := svc.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := svc.CheckPassword(hash, "correct horse"); err != nil {
		t.Fatalf("CheckPassword(match) error = %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("CheckPassword(mismatch) error = %v, want ErrBadCredentials", err)
	}
	if err := svc.CheckPassword("", "x"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("CheckPassword(empty hash) error = %v, want ErrBadCredentials", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	auth := NewAuthService(nil, time.Minute)
	hash, _ := auth.HashPassword("s3cret-pass")
	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			if email == "ann@example.com" {
				return &models.User{ID: 1, Email: email, PasswordHash: hash}, nil
			}
			return nil, repositories.ErrNotFound
		},
	}
	svc := NewUserService(repo, auth)

	u, err := svc.Authenticate(context.Background(), " ann@example.com ", "s3cret-pass")
	if err != nil || u.ID != 1 {
		t.Fatalf("Authenticate(valid) = %v, %v", u, err)
	}
	if _, err := svc.Authenticate(context.Background(), "ann@example.com", "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("Authenticate(bad password) error = %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "bob@example.com", "s3cret-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("Authenticate(unknown) error = %v", err)
	}
}

func TestUserService_UpdateNotifications(t *testing.T) {
	var saved models.NotificationPrefs
	repo := &fakeUserRepo{
		notificationFn: func(ctx context.Context, id int64, prefs models.NotificationPrefs) error {
			saved = prefs
			return nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, NotifyTelegram: saved.NotifyTelegram, TelegramChatID: saved.TelegramChatID}, nil
		},
	}
	svc := NewUserService(repo, NewAuthService(nil, time.Minute))

	if _, err := svc.UpdateNotifications(context.Background(), 1, models.NotificationPrefs{NotifyTelegram: true}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdateNotifications(no chat) error = %v, want ErrInvalidInput", err)
	}
	u, err := svc.UpdateNotifications(context.Background(), 1, models.NotificationPrefs{NotifyTelegram: true, TelegramChatID: 55})
	if err != nil {
		t.Fatalf("UpdateNotifications() error = %v", err)
	}
	if !u.NotifyTelegram || u.TelegramChatID != 55 {
		t.Fatalf("UpdateNotifications() = %+v", u)
	}
}
