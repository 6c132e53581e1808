package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, name, category, start_date, end_date, priority, note, completed, completed_at, created_at, updated_at`

// TaskRepository stores tasks. Every lookup and mutation filters on the owner id.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Category,
		&t.StartDate,
		&t.EndDate,
		&t.Priority,
		&t.Note,
		&t.Completed,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, user_id, name, category, start_date, end_date, priority, note, completed, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.UserID, t.Name, t.Category, t.StartDate, t.EndDate, t.Priority,
		t.Note, t.Completed, t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	return translate(err)
}

func (r *TaskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
}

// UpdateByOwner merges upd into the task matching id and owner.
func (r *TaskRepository) UpdateByOwner(ctx context.Context, ownerID, id string, upd domain.TaskUpdate, now time.Time) (*domain.Task, error) {
	query, args := buildTaskUpdate(ownerID, id, upd, now)
	return scanTask(r.db.QueryRow(ctx, query, args...))
}

func buildTaskUpdate(ownerID, id string, upd domain.TaskUpdate, now time.Time) (string, []any) {
	args := []any{now}
	sets := []string{"updated_at = $1"}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Note.Set {
		add("note", upd.Note.Ptr())
	}
	if upd.Completed != nil {
		add("completed", *upd.Completed)
	}
	switch {
	case upd.CompletedAt.Set:
		add("completed_at", upd.CompletedAt.Ptr())
	case upd.Completed != nil && *upd.Completed:
		sets = append(sets, "completed_at = COALESCE(completed_at, $1)")
	case upd.Completed != nil:
		sets = append(sets, "completed_at = NULL")
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), taskColumns)
	return query, args
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
