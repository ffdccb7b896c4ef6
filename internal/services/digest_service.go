package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/repositories"
)

// digestLimit caps how many tasks of each bucket are listed in one digest.
const digestLimit = 10

// MessageSender delivers chat messages. A disabled sender drops them, so
// callers check Enabled before counting a send.
type MessageSender interface {
	Enabled() bool
	SendMessage(chatID int64, text string) error
}

type DigestService struct {
	users    repositories.UserRepository
	tasks    repositories.TaskRepository
	telegram MessageSender
	email    EmailService
}

func NewDigestService(users repositories.UserRepository, tasks repositories.TaskRepository, telegram MessageSender, email EmailService) *DigestService {
	return &DigestService{users: users, tasks: tasks, telegram: telegram, email: email}
}

// SendOverdue notifies every opted-in user that has overdue or due-today tasks.
// A failure for one user is logged and does not stop the run. It returns the
// number of users that received at least one digest.
func (s *DigestService) SendOverdue(ctx context.Context, now time.Time) (int, error) {
	recipients, err := s.users.ListDigestRecipients(ctx)
	if err != nil {
		return 0, fmt.Errorf("list digest recipients: %w", err)
	}

	sent := 0
	for _, u := range recipients {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		uid := u.ID
		tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{AssigneeID: &uid})
		if err != nil {
			log.Printf("[digest][err] load tasks user=%d: %v", u.ID, err)
			continue
		}
		b := planner.BucketTasks(tasks, now)
		if len(b.Overdue) == 0 && len(b.Today) == 0 {
			continue
		}
		if s.deliver(u, b, now) {
			sent++
		}
	}
	log.Printf("[digest][ok] recipients=%d sent=%d", len(recipients), sent)
	return sent, nil
}

func (s *DigestService) deliver(u models.User, b planner.Buckets, now time.Time) bool {
	delivered := false
	if u.NotifyTelegram && u.TelegramChatID != 0 && s.telegram != nil && s.telegram.Enabled() {
		if err := s.telegram.SendMessage(u.TelegramChatID, FormatDigest(b, now)); err != nil {
			log.Printf("[digest][tg][err] user=%d: %v", u.ID, err)
		} else {
			delivered = true
		}
	}
	if u.NotifyEmail && u.Email != "" && s.email != nil {
		subject := fmt.Sprintf("%d overdue, %d due today", len(b.Overdue), len(b.Today))
		body := "<pre>" + FormatDigest(b, now) + "</pre>"
		if err := s.email.SendDigest(u.Email, subject, body); err != nil {
			log.Printf("[digest][email][err] user=%d: %v", u.ID, err)
		} else {
			delivered = true
		}
	}
	return delivered
}

// Run sends digests every interval until ctx is cancelled.
func (s *DigestService) Run(ctx context.Context, interval time.Duration, clock func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("[digest][loop] started interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[digest][loop] stopped")
			return
		case <-ticker.C:
			if _, err := s.SendOverdue(ctx, clock()); err != nil {
				log.Printf("[digest][loop][err] %v", err)
			}
		}
	}
}

// FormatDigest renders the overdue and today buckets as Telegram HTML.
func FormatDigest(b planner.Buckets, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏰ <b>Digest for %s</b>\n", now.Format("Mon, Jan 2"))
	writeDigestSection(&sb, "Overdue", b.Overdue, now)
	writeDigestSection(&sb, "Due today", b.Today, now)
	return sb.String()
}

func writeDigestSection(sb *strings.Builder, title string, tasks []models.Task, now time.Time) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n<b>%s (%d)</b>\n", title, len(tasks))
	for i, t := range tasks {
		if i == digestLimit {
			fmt.Fprintf(sb, "… and %d more\n", len(tasks)-digestLimit)
			break
		}
		line := "• " + html.EscapeString(t.Title)
		if t.Project != nil && t.Project.Name != "" {
			line += " <i>(" + html.EscapeString(t.Project.Name) + ")</i>"
		}
		if t.DueDate != nil {
			if t.DueDate.Before(now) {
				line += " — " + planner.FormatRelative(*t.DueDate, now)
			} else {
				line += " — due " + t.DueDate.In(now.Location()).Format("15:04")
			}
		}
		sb.WriteString(line + "\n")
	}
}
