package repositories

import (
	"context"
	"database/sql"
	"errors"

	"workhub/internal/models"
)

type WorkspaceRepository interface {
	ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error)
	FindByID(ctx context.Context, id int64) (*models.Workspace, error)
	IsMember(ctx context.Context, workspaceID, userID int64) (bool, error)
}

type workspaceRepository struct {
	db *sql.DB
}

func NewWorkspaceRepository(db *sql.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

const workspaceSelect = `
SELECT w.id, w.name, COALESCE(w.color, ''), w.owner_id,
       (SELECT COUNT(*) FROM projects p WHERE p.workspace_id = w.id), w.created_at
FROM workspaces w`

func scanWorkspace(s rowScanner) (models.Workspace, error) {
	var w models.Workspace
	err := s.Scan(&w.ID, &w.Name, &w.Color, &w.OwnerID, &w.ProjectsCount, &w.CreatedAt)
	return w, err
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, workspaceSelect+`
		WHERE w.owner_id = $1
		   OR EXISTS (SELECT 1 FROM workspace_members m WHERE m.workspace_id = w.id AND m.user_id = $1)
		ORDER BY w.name, w.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Workspace{}
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *workspaceRepository) FindByID(ctx context.Context, id int64) (*models.Workspace, error) {
	w, err := scanWorkspace(r.db.QueryRowContext(ctx, workspaceSelect+` WHERE w.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *workspaceRepository) IsMember(ctx context.Context, workspaceID, userID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM workspaces w WHERE w.id = $1 AND w.owner_id = $2
			UNION ALL
			SELECT 1 FROM workspace_members m WHERE m.workspace_id = $1 AND m.user_id = $2
		)`, workspaceID, userID).Scan(&ok)
	return ok, err
}
