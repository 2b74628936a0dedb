package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Document Repository
// ============================================

type pgDocumentRepository struct {
	pool *pgxpool.Pool
}

func (r *pgDocumentRepository) Create(ctx context.Context, doc *TaskDocument) error {
	query := `
		INSERT INTO task_documents (task_id, title, file_name, file_path, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`
	return r.pool.QueryRow(ctx, query,
		doc.TaskID, doc.Title, doc.FileName, doc.FilePath, doc.FileSize, doc.UploadedBy,
	).Scan(&doc.ID, &doc.UploadedAt)
}

func (r *pgDocumentRepository) FindByID(ctx context.Context, id string) (*TaskDocument, error) {
	query := `
		SELECT id, task_id, title, file_name, file_path, file_size, uploaded_by, uploaded_at
		FROM task_documents WHERE id = $1
	`
	doc := &TaskDocument{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.TaskID, &doc.Title, &doc.FileName, &doc.FilePath,
		&doc.FileSize, &doc.UploadedBy, &doc.UploadedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *pgDocumentRepository) FindByTaskID(ctx context.Context, taskID string) ([]*TaskDocument, error) {
	query := `
		SELECT id, task_id, title, file_name, file_path, file_size, uploaded_by, uploaded_at
		FROM task_documents WHERE task_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*TaskDocument
	for rows.Next() {
		doc := &TaskDocument{}
		if err := rows.Scan(
			&doc.ID, &doc.TaskID, &doc.Title, &doc.FileName, &doc.FilePath,
			&doc.FileSize, &doc.UploadedBy, &doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *pgDocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM task_documents WHERE id = $1`, id)
	return err
}
