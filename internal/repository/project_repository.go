package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Project Repository
// ============================================

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

const projectColumns = `
	p.id, p.name, p.description, p.client_id, p.location, p.status,
	p.start_date, p.end_date, p.budget, p.manager_id, p.created_at, p.updated_at
`

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (name, description, client_id, location, status, start_date, end_date, budget, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		project.Name, project.Description, project.ClientID, project.Location,
		project.Status, project.StartDate, project.EndDate, project.Budget, project.ManagerID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}
	for _, userID := range project.TeamMemberIDs {
		if err := r.AddMember(ctx, project.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`
	project := &Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.Name, &project.Description, &project.ClientID,
		&project.Location, &project.Status, &project.StartDate, &project.EndDate,
		&project.Budget, &project.ManagerID, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// FindByUserID returns projects where the user is manager or team member.
func (r *pgProjectRepository) FindByUserID(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT DISTINCT ` + projectColumns + `
		FROM projects p
		LEFT JOIN project_members pm ON p.id = pm.project_id
		WHERE p.manager_id = $1 OR pm.user_id = $1
		ORDER BY p.created_at DESC
	`
	return r.queryProjects(ctx, query, userID)
}

func (r *pgProjectRepository) FindManagedBy(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects p WHERE p.manager_id = $1
		ORDER BY p.created_at DESC
	`
	return r.queryProjects(ctx, query, userID)
}

func (r *pgProjectRepository) CountManagedBy(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE manager_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (r *pgProjectRepository) CountByClientID(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE client_id = $1`, clientID,
	).Scan(&count)
	return count, err
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, client_id = $4, location = $5, status = $6,
		    start_date = $7, end_date = $8, budget = $9, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Name, project.Description, project.ClientID, project.Location,
		project.Status, project.StartDate, project.EndDate, project.Budget,
	)
	return err
}

// Delete cascades to tasks and their documents at the database level.
func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *pgProjectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	query := `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, projectID, userID)
	return err
}

func (r *pgProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	return err
}

func (r *pgProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID, &project.Name, &project.Description, &project.ClientID,
			&project.Location, &project.Status, &project.StartDate, &project.EndDate,
			&project.Budget, &project.ManagerID, &project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, project := range projects {
		if err := r.loadMembers(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *pgProjectRepository) loadMembers(ctx context.Context, project *Project) error {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY joined_at`,
		project.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	project.TeamMemberIDs = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		project.TeamMemberIDs = append(project.TeamMemberIDs, userID)
	}
	return rows.Err()
}
