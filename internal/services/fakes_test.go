package services

import (
	"context"
	"io"
	"time"

	"workhub/internal/models"
	"workhub/internal/pdf"
	"workhub/internal/repositories"
)

type fakeTaskRepo struct {
	storeFn        func(ctx context.Context, t *models.Task) error
	findByIDFn     func(ctx context.Context, id int64) (*models.Task, error)
	findAllFn      func(ctx context.Context, f models.TaskFilter) ([]models.Task, error)
	updateFn       func(ctx context.Context, t *models.Task) error
	deleteFn       func(ctx context.Context, id int64) error
	updateStatusFn func(ctx context.Context, id int64, to models.TaskStatus) error
	setLabelsFn    func(ctx context.Context, id int64, labelIDs []int64) error
}

func (f *fakeTaskRepo) Store(ctx context.Context, t *models.Task) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, t)
	}
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, t *models.Task) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, to)
	}
	return nil
}

func (f *fakeTaskRepo) SetLabels(ctx context.Context, id int64, labelIDs []int64) error {
	if f.setLabelsFn != nil {
		return f.setLabelsFn(ctx, id, labelIDs)
	}
	return nil
}

type fakeEntryRepo struct {
	createFn      func(ctx context.Context, e *models.TimeEntry) error
	findByIDFn    func(ctx context.Context, id int64) (*models.TimeEntry, error)
	findRunningFn func(ctx context.Context, userID int64) (*models.TimeEntry, error)
	listFn        func(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error)
	stopFn        func(ctx context.Context, id int64, stoppedAt time.Time, duration int64) error
}

func (f *fakeEntryRepo) Create(ctx context.Context, e *models.TimeEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEntryRepo) FindByID(ctx context.Context, id int64) (*models.TimeEntry, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEntryRepo) FindRunning(ctx context.Context, userID int64) (*models.TimeEntry, error) {
	if f.findRunningFn != nil {
		return f.findRunningFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeEntryRepo) ListByUser(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, since)
	}
	return nil, nil
}

func (f *fakeEntryRepo) Stop(ctx context.Context, id int64, stoppedAt time.Time, duration int64) error {
	if f.stopFn != nil {
		return f.stopFn(ctx, id, stoppedAt, duration)
	}
	return nil
}

type fakeWorkspaceRepo struct {
	listFn     func(ctx context.Context, userID int64) ([]models.Workspace, error)
	findByIDFn func(ctx context.Context, id int64) (*models.Workspace, error)
	isMemberFn func(ctx context.Context, workspaceID, userID int64) (bool, error)
}

func (f *fakeWorkspaceRepo) ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeWorkspaceRepo) FindByID(ctx context.Context, id int64) (*models.Workspace, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeWorkspaceRepo) IsMember(ctx context.Context, workspaceID, userID int64) (bool, error) {
	if f.isMemberFn != nil {
		return f.isMemberFn(ctx, workspaceID, userID)
	}
	return false, nil
}

type fakeUserRepo struct {
	getByIDFn      func(ctx context.Context, id int64) (*models.User, error)
	getByEmailFn   func(ctx context.Context, email string) (*models.User, error)
	recipientsFn   func(ctx context.Context) ([]models.User, error)
	notificationFn func(ctx context.Context, id int64, prefs models.NotificationPrefs) error
	passwordFn     func(ctx context.Context, id int64, hash string) error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) ListDigestRecipients(ctx context.Context) ([]models.User, error) {
	if f.recipientsFn != nil {
		return f.recipientsFn(ctx)
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) error {
	if f.notificationFn != nil {
		return f.notificationFn(ctx, id, prefs)
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if f.passwordFn != nil {
		return f.passwordFn(ctx, id, hash)
	}
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Enabled() bool { return true }

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID, text})
	return nil
}

type fakeEmail struct {
	digests []string
	resets  map[string]string
	err     error
}

func (f *fakeEmail) SendDigest(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.digests = append(f.digests, to)
	return nil
}

func (f *fakeEmail) SendPasswordReset(to, token string) error {
	if f.err != nil {
		return f.err
	}
	if f.resets == nil {
		f.resets = map[string]string{}
	}
	f.resets[to] = token
	return nil
}

type fakeGenerator struct {
	got *pdf.ReportData
}

func (f *fakeGenerator) WorkspaceReport(w io.Writer, data pdf.ReportData) error {
	f.got = &data
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt64(v int64) *int64 { return &v }
