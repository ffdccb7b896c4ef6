package models

type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"` // не отдаём наружу
	RoleID         int    `json:"role_id"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
	NotifyTelegram bool   `json:"notify_telegram"`
	NotifyEmail    bool   `json:"notify_email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type NotificationPrefs struct {
	TelegramChatID int64 `json:"telegram_chat_id"`
	NotifyTelegram bool  `json:"notify_telegram"`
	NotifyEmail    bool  `json:"notify_email"`
}
