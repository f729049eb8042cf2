package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/devhire/job-board/internal/model"
)

// SavedJobRepo persists job bookmarks.
type SavedJobRepo struct{ DB *sql.DB }

func NewSavedJobRepo(db *sql.DB) *SavedJobRepo { return &SavedJobRepo{DB: db} }

// Save bookmarks a job for a user. Saving twice surfaces as ErrConflict.
func (r *SavedJobRepo) Save(ctx context.Context, userID, jobID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO saved_jobs (user_id, job_id) VALUES (?,?)", userID, jobID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes a bookmark by row id.
func (r *SavedJobRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM saved_jobs WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns a user's bookmarks, newest first.
func (r *SavedJobRepo) ListByUser(ctx context.Context, userID uint64) ([]model.SavedJob, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, job_id, created_at FROM saved_jobs WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SavedJob
	for rows.Next() {
		var s model.SavedJob
		if err := rows.Scan(&s.ID, &s.UserID, &s.JobID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// OwnerOf returns the owning user of a bookmark.
func (r *SavedJobRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM saved_jobs WHERE id=? LIMIT 1", id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}
