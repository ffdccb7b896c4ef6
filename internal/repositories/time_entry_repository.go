package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workhub/internal/models"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, e *models.TimeEntry) error
	FindByID(ctx context.Context, id int64) (*models.TimeEntry, error)
	FindRunning(ctx context.Context, userID int64) (*models.TimeEntry, error)
	ListByUser(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error)
	Stop(ctx context.Context, id int64, stoppedAt time.Time, duration int64) error
}

type timeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const timeEntrySelect = `
SELECT e.id, e.user_id, e.task_id, COALESCE(t.title, ''), e.started_at, e.stopped_at,
       e.duration, COALESCE(e.description, '')
FROM time_entries e
LEFT JOIN tasks t ON t.id = e.task_id`

func scanTimeEntry(s rowScanner) (models.TimeEntry, error) {
	var (
		e         models.TimeEntry
		taskID    sql.NullInt64
		taskTitle string
		stoppedAt sql.NullTime
	)
	if err := s.Scan(&e.ID, &e.UserID, &taskID, &taskTitle, &e.StartedAt, &stoppedAt,
		&e.Duration, &e.Description); err != nil {
		return models.TimeEntry{}, err
	}
	if taskID.Valid {
		id := taskID.Int64
		e.TaskID = &id
		e.Task = &models.TaskRef{ID: id, Title: taskTitle}
	}
	if stoppedAt.Valid {
		st := stoppedAt.Time
		e.StoppedAt = &st
	}
	return e, nil
}

// runningEntryIndex allows a single open entry per user.
const runningEntryIndex = "uq_time_entries_running"

func (r *timeEntryRepository) Create(ctx context.Context, e *models.TimeEntry) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO time_entries (user_id, task_id, started_at, stopped_at, duration, description)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		e.UserID, e.TaskID, e.StartedAt, e.StoppedAt, e.Duration, e.Description,
	).Scan(&e.ID)
	return createEntryErr(err)
}

func createEntryErr(err error) error {
	if isUniqueViolation(err, runningEntryIndex) {
		return ErrRunningEntry
	}
	return err
}

func (r *timeEntryRepository) FindByID(ctx context.Context, id int64) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(r.db.QueryRowContext(ctx, timeEntrySelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindRunning returns nil, nil when the user has no running timer.
func (r *timeEntryRepository) FindRunning(ctx context.Context, userID int64) (*models.TimeEntry, error) {
	e, err := scanTimeEntry(r.db.QueryRowContext(ctx,
		timeEntrySelect+` WHERE e.user_id = $1 AND e.stopped_at IS NULL ORDER BY e.started_at DESC LIMIT 1`,
		userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *timeEntryRepository) ListByUser(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error) {
	query := timeEntrySelect + ` WHERE e.user_id = $1`
	args := []any{userID}
	if since != nil {
		query += ` AND (e.stopped_at IS NULL OR e.stopped_at >= $2)`
		args = append(args, *since)
	}
	query += ` ORDER BY e.started_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *timeEntryRepository) Stop(ctx context.Context, id int64, stoppedAt time.Time, duration int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET stopped_at=$1, duration=$2 WHERE id=$3 AND stopped_at IS NULL`,
		stoppedAt, duration, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
