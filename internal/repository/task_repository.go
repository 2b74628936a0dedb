package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Task Repository
// ============================================

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

const taskColumns = `
	t.id, t.project_id, t.created_by, t.assigned_to, t.title, t.description,
	t.status, t.priority, t.start_date, t.end_date, t.time_spent, t.created_at, t.updated_at
`

func (r *pgTaskRepository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (project_id, created_by, assigned_to, title, description, status, priority, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, time_spent, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		task.ProjectID, task.CreatedBy, task.AssignedTo, task.Title, task.Description,
		task.Status, task.Priority, task.StartDate, task.EndDate,
	).Scan(&task.ID, &task.TimeSpent, &task.CreatedAt, &task.UpdatedAt)
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	task := &Task{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.ProjectID, &task.CreatedBy, &task.AssignedTo, &task.Title,
		&task.Description, &task.Status, &task.Priority, &task.StartDate, &task.EndDate,
		&task.TimeSpent, &task.CreatedAt, &task.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *pgTaskRepository) FindByProjectID(ctx context.Context, projectID string, filters *TaskFilters) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.project_id = $1`
	args := []any{projectID}

	if filters != nil {
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += ` AND t.status = $` + itoa(len(args))
		}
		if filters.Priority != "" {
			args = append(args, filters.Priority)
			query += ` AND t.priority = $` + itoa(len(args))
		}
		if filters.Search != "" {
			args = append(args, "%"+filters.Search+"%")
			query += ` AND t.title ILIKE $` + itoa(len(args))
		}
	}
	query += ` ORDER BY t.end_date NULLS LAST, t.created_at DESC`
	return r.queryTasks(ctx, query, args...)
}

// FindVisibleTo returns the tasks a user may see: assigned to them, or in a
// project they manage or belong to.
func (r *pgTaskRepository) FindVisibleTo(ctx context.Context, userID string) ([]*Task, error) {
	query := `
		SELECT DISTINCT ` + taskColumns + `
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		LEFT JOIN project_members pm ON p.id = pm.project_id
		WHERE t.assigned_to = $1 OR p.manager_id = $1 OR pm.user_id = $1
		ORDER BY t.end_date NULLS LAST, t.created_at DESC
	`
	return r.queryTasks(ctx, query, userID)
}

// FindOpenEndedBefore returns non-done tasks whose end date is before the
// given date (the overdue sweep).
func (r *pgTaskRepository) FindOpenEndedBefore(ctx context.Context, date time.Time) ([]*Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.end_date IS NOT NULL AND t.end_date < $1 AND t.status != 'done'
		ORDER BY t.end_date
	`
	return r.queryTasks(ctx, query, date)
}

func (r *pgTaskRepository) Update(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET assigned_to = $2, title = $3, description = $4, status = $5, priority = $6,
		    start_date = $7, end_date = $8, time_spent = $9, updated_at = $10
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID, task.AssignedTo, task.Title, task.Description, task.Status,
		task.Priority, task.StartDate, task.EndDate, task.TimeSpent, task.UpdatedAt,
	)
	return err
}

// UpdateStatus performs the guarded status write. The WHERE clause pins the
// expected current status so two concurrent transitions cannot both succeed
// from a stale read; a miss returns ErrStaleStatus.
func (r *pgTaskRepository) UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Delete cascades to task documents at the database level.
func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *pgTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		if err := rows.Scan(
			&task.ID, &task.ProjectID, &task.CreatedBy, &task.AssignedTo, &task.Title,
			&task.Description, &task.Status, &task.Priority, &task.StartDate, &task.EndDate,
			&task.TimeSpent, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
