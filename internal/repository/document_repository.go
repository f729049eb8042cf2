package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devhire/job-board/internal/model"
)

// DocumentRepo persists document metadata rows.
type DocumentRepo struct{ DB *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{DB: db} }

// Create inserts a document row and fills in its ID.
func (r *DocumentRepo) Create(ctx context.Context, d *model.Document) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO documents (user_id, name, url, doc_type) VALUES (?,?,?,?)",
		d.UserID, d.Name, d.URL, d.DocType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID fetches a live document.
func (r *DocumentRepo) GetByID(ctx context.Context, id uint64) (model.Document, error) {
	var d model.Document
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, name, url, doc_type, created_at, updated_at FROM documents WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&d.ID, &d.UserID, &d.Name, &d.URL, &d.DocType, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListByUser returns a user's live documents.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Document, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, name, url, doc_type, created_at, updated_at FROM documents WHERE user_id=? AND deleted_at IS NULL ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.URL, &d.DocType, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SoftDelete marks a document as deleted.
func (r *DocumentRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE documents SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnerOf returns the owning user of a live document.
func (r *DocumentRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM documents WHERE id=? AND deleted_at IS NULL LIMIT 1", id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}
