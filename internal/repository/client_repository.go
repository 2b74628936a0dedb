package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Client Repository
// ============================================

type pgClientRepository struct {
	pool *pgxpool.Pool
}

func (r *pgClientRepository) Create(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (name, email, phone, company)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		client.Name, client.Email, client.Phone, client.Company,
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *pgClientRepository) FindByID(ctx context.Context, id string) (*Client, error) {
	query := `
		SELECT id, name, email, phone, company, created_at
		FROM clients WHERE id = $1
	`
	client := &Client{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Company, &client.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *pgClientRepository) FindAll(ctx context.Context) ([]*Client, error) {
	query := `
		SELECT id, name, email, phone, company, created_at
		FROM clients ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		client := &Client{}
		if err := rows.Scan(
			&client.ID, &client.Name, &client.Email, &client.Phone, &client.Company, &client.CreatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *pgClientRepository) Update(ctx context.Context, client *Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, phone = $4, company = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		client.ID, client.Name, client.Email, client.Phone, client.Company,
	)
	return err
}

// Delete relies on the RESTRICT constraint from projects.client_id: deleting
// a client still referenced by a project fails at the database. The service
// layer checks first to return a clean conflict.
func (r *pgClientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
