package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"workhub/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	SetLabels(ctx context.Context, id int64, labelIDs []int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Проект, воркспейс и метки подтягиваются одним запросом.
const taskSelect = `
SELECT t.id, t.creator_id, t.assignee_id, t.project_id, t.title, t.description,
       t.due_date, t.priority, t.status, t.created_at, t.updated_at,
       p.id, COALESCE(p.name, ''), w.id, COALESCE(w.name, ''), COALESCE(w.color, ''),
       (SELECT COUNT(*) FROM comments c WHERE c.task_id = t.id),
       COALESCE(ARRAY(SELECT l.id FROM task_labels tl JOIN labels l ON l.id = tl.label_id
                      WHERE tl.task_id = t.id ORDER BY tl.position, l.id), '{}'),
       COALESCE(ARRAY(SELECT l.name FROM task_labels tl JOIN labels l ON l.id = tl.label_id
                      WHERE tl.task_id = t.id ORDER BY tl.position, l.id), '{}'),
       COALESCE(ARRAY(SELECT l.color FROM task_labels tl JOIN labels l ON l.id = tl.label_id
                      WHERE tl.task_id = t.id ORDER BY tl.position, l.id), '{}')
FROM tasks t
LEFT JOIN projects p ON p.id = t.project_id
LEFT JOIN workspaces w ON w.id = p.workspace_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (models.Task, error) {
	var (
		t           models.Task
		due         sql.NullTime
		projectID   sql.NullInt64
		pID         sql.NullInt64
		pName       string
		wID         sql.NullInt64
		wName       string
		wColor      string
		labelIDs    []int64
		labelNames  pq.StringArray
		labelColors pq.StringArray
	)
	err := s.Scan(
		&t.ID, &t.CreatorID, &t.AssigneeID, &projectID, &t.Title, &t.Description,
		&due, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		&pID, &pName, &wID, &wName, &wColor,
		&t.CommentsCount,
		pq.Array(&labelIDs), &labelNames, &labelColors,
	)
	if err != nil {
		return models.Task{}, err
	}

	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if projectID.Valid {
		id := projectID.Int64
		t.ProjectID = &id
	}
	if pID.Valid {
		t.Project = &models.ProjectRef{ID: pID.Int64, Name: pName}
		if wID.Valid {
			t.Project.Workspace = &models.WorkspaceRef{ID: wID.Int64, Name: wName, Color: wColor}
		}
	}

	t.Labels = make([]models.Label, 0, len(labelIDs))
	for i, id := range labelIDs {
		l := models.Label{ID: id}
		if i < len(labelNames) {
			l.Name = labelNames[i]
		}
		if i < len(labelColors) {
			l.Color = labelColors[i]
		}
		t.Labels = append(t.Labels, l)
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			creator_id, assignee_id, project_id, title, description,
			due_date, priority, status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.CreatorID, task.AssigneeID, task.ProjectID, task.Title, task.Description,
		task.DueDate, task.Priority, task.Status, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query, args := buildTaskQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func buildTaskQuery(filter models.TaskFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.AssigneeID != nil {
		add("t.assignee_id = $%d", *filter.AssigneeID)
	}
	if filter.CreatorID != nil {
		add("t.creator_id = $%d", *filter.CreatorID)
	}
	if filter.ProjectID != nil {
		add("t.project_id = $%d", *filter.ProjectID)
	}
	if filter.WorkspaceID != nil {
		add("p.workspace_id = $%d", *filter.WorkspaceID)
	}
	if filter.Status != nil {
		add("t.status = $%d", *filter.Status)
	}

	query := taskSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"
	return query, args
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			assignee_id=$1, project_id=$2, title=$3, description=$4, due_date=$5,
			priority=$6, status=$7, updated_at=$8
		WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query,
		task.AssigneeID, task.ProjectID, task.Title, task.Description, task.DueDate,
		task.Priority, task.Status, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// SetLabels replaces the task's labels, keeping the given order.
func (r *taskRepository) SetLabels(ctx context.Context, id int64, labelIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id = $1`, id); err != nil {
		return err
	}
	if len(labelIDs) > 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_labels (task_id, label_id, position)
			SELECT $1, l.id, l.ord
			FROM unnest($2::bigint[]) WITH ORDINALITY AS l(id, ord)`,
			id, pq.Array(labelIDs))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
