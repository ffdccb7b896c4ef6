package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"workhub/internal/models"
	"workhub/internal/planner"
)

func digestFixture(now time.Time) (*fakeUserRepo, *fakeTaskRepo) {
	users := &fakeUserRepo{
		recipientsFn: func(ctx context.Context) ([]models.User, error) {
			return []models.User{
				{ID: 1, TelegramChatID: 100, NotifyTelegram: true},
				{ID: 2, Email: "two@example.com", NotifyEmail: true},
				{ID: 3, Email: "three@example.com", NotifyEmail: true},
			}, nil
		},
	}
	byUser := map[int64][]models.Task{
		1: {{ID: 10, Title: "Overdue one", Status: models.StatusTodo, DueDate: ptrTime(now.AddDate(0, 0, -2))}},
		2: {{ID: 20, Title: "Due today", Status: models.StatusInProgress, DueDate: ptrTime(now.Add(3 * time.Hour))}},
		3: {{ID: 30, Title: "Next month", Status: models.StatusTodo, DueDate: ptrTime(now.AddDate(0, 1, 0))}},
	}
	tasks := &fakeTaskRepo{
		findAllFn: func(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
			return byUser[*f.AssigneeID], nil
		},
	}
	return users, tasks
}

func TestDigestService_SendOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	users, tasks := digestFixture(now)
	tg := &fakeSender{}
	mail := &fakeEmail{}

	sent, err := NewDigestService(users, tasks, tg, mail).SendOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("SendOverdue() error = %v", err)
	}
	if sent != 2 {
		t.Fatalf("SendOverdue() sent = %d, want 2", sent)
	}
	if len(tg.sent) != 1 || tg.sent[0].chatID != 100 {
		t.Fatalf("telegram messages = %+v, want one to chat 100", tg.sent)
	}
	if !strings.Contains(tg.sent[0].text, "Overdue (1)") {
		t.Fatalf("telegram text missing overdue section:\n%s", tg.sent[0].text)
	}
	if len(mail.digests) != 1 || mail.digests[0] != "two@example.com" {
		t.Fatalf("email digests = %v, want [two@example.com]", mail.digests)
	}
}

func TestDigestService_OneFailureDoesNotStopOthers(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	users, tasks := digestFixture(now)
	inner := tasks.findAllFn
	tasks.findAllFn = func(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
		if *f.AssigneeID == 1 {
			return nil, errors.New("db down")
		}
		return inner(ctx, f)
	}
	mail := &fakeEmail{}

	sent, err := NewDigestService(users, tasks, &fakeSender{}, mail).SendOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("SendOverdue() error = %v", err)
	}
	if sent != 1 || len(mail.digests) != 1 {
		t.Fatalf("SendOverdue() sent=%d emails=%v, want 1", sent, mail.digests)
	}
}

func TestDigestService_DeliveryErrorNotCounted(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	users, tasks := digestFixture(now)

	sent, err := NewDigestService(users, tasks, &fakeSender{err: errors.New("bot blocked")}, &fakeEmail{}).
		SendOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("SendOverdue() error = %v", err)
	}
	if sent != 1 {
		t.Fatalf("SendOverdue() sent = %d, want 1", sent)
	}
}

func TestDigestService_RecipientsError(t *testing.T) {
	users := &fakeUserRepo{
		recipientsFn: func(ctx context.Context) ([]models.User, error) { return nil, errors.New("boom") },
	}
	if _, err := NewDigestService(users, &fakeTaskRepo{}, nil, nil).SendOverdue(context.Background(), time.Now()); err == nil {
		t.Fatalf("SendOverdue() error = nil, want error")
	}
}

func TestDigestService_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 8)
	users := &fakeUserRepo{
		recipientsFn: func(ctx context.Context) ([]models.User, error) {
			calls <- struct{}{}
			return nil, nil
		},
	}
	svc := NewDigestService(users, &fakeTaskRepo{}, nil, nil)

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, 5*time.Millisecond, time.Now)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run() never ticked")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run() did not return after cancel")
	}
}

func TestFormatDigest(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	b := planner.BucketTasks([]models.Task{
		{ID: 1, Title: "<b>bold</b>", Status: models.StatusTodo, DueDate: ptrTime(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)),
			Project: &models.ProjectRef{ID: 1, Name: "Ops"}},
		{ID: 2, Title: "standup", Status: models.StatusTodo, DueDate: ptrTime(time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC))},
	}, now)

	got := FormatDigest(b, now)
	for _, want := range []string{
		"Digest for Mon, Jun 10",
		"Overdue (1)",
		"&lt;b&gt;bold&lt;/b&gt; <i>(Ops)</i> — 2d ago",
		"Due today (1)",
		"standup — due 15:00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatDigest() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatDigest_Truncates(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	var tasks []models.Task
	for i := 0; i < digestLimit+2; i++ {
		tasks = append(tasks, models.Task{ID: int64(i + 1), Title: fmt.Sprintf("t%d", i), Status: models.StatusTodo,
			DueDate: ptrTime(now.AddDate(0, 0, -1))})
	}
	got := FormatDigest(planner.BucketTasks(tasks, now), now)
	if !strings.Contains(got, "… and 2 more") {
		t.Fatalf("FormatDigest() did not truncate:\n%s", got)
	}
}

func TestDigestService_DisabledChannelsNotCounted(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	users, tasks := digestFixture(now)
	tg, err := NewTelegramService("")
	if err != nil {
		t.Fatalf("NewTelegramService() error = %v", err)
	}

	sent, err := NewDigestService(users, tasks, tg, nil).SendOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("SendOverdue() error = %v", err)
	}
	if sent != 0 {
		t.Fatalf("SendOverdue() sent = %d, want 0 with no working channel", sent)
	}
}
