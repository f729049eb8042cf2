package repository

import (
	"context"
	"database/sql"
	"errors"
)

// OwnershipRepo answers the narrow "who owns this row" questions the
// ownership middleware asks. Keeping these as dedicated single-column
// queries means the gate never loads full entities just to compare ids.
type OwnershipRepo struct{ DB *sql.DB }

func NewOwnershipRepo(db *sql.DB) *OwnershipRepo { return &OwnershipRepo{DB: db} }

func (r *OwnershipRepo) singleOwner(ctx context.Context, query string, id uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}

// JobOwner returns the creator of a live job.
func (r *OwnershipRepo) JobOwner(ctx context.Context, id uint64) (uint64, error) {
	return r.singleOwner(ctx,
		"SELECT user_id FROM jobs WHERE id=? AND deleted_at IS NULL LIMIT 1", id)
}

// ApplicationParties returns the applicant, the assigned recruiter (nil
// when unassigned) and the owner of the job behind a live application.
// The job owner comes from the same query so the recruiter-owns-the-job
// transitive check costs one round trip.
func (r *OwnershipRepo) ApplicationParties(ctx context.Context, id uint64) (applicant uint64, recruiter *uint64, jobOwner uint64, err error) {
	var rec sql.NullInt64
	err = r.DB.QueryRowContext(ctx,
		"SELECT a.user_id, a.recruiter_id, j.user_id FROM applications a "+
			"JOIN jobs j ON j.id = a.job_id "+
			"WHERE a.id=? AND a.deleted_at IS NULL LIMIT 1", id).
		Scan(&applicant, &rec, &jobOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, 0, ErrNotFound
	}
	if err != nil {
		return 0, nil, 0, err
	}
	if rec.Valid {
		v := uint64(rec.Int64)
		recruiter = &v
	}
	return applicant, recruiter, jobOwner, nil
}

// DocumentOwner returns the owner of a live document.
func (r *OwnershipRepo) DocumentOwner(ctx context.Context, id uint64) (uint64, error) {
	return r.singleOwner(ctx,
		"SELECT user_id FROM documents WHERE id=? AND deleted_at IS NULL LIMIT 1", id)
}

// NotificationOwner returns the recipient of a notification.
func (r *OwnershipRepo) NotificationOwner(ctx context.Context, id uint64) (uint64, error) {
	return r.singleOwner(ctx,
		"SELECT user_id FROM notifications WHERE id=? LIMIT 1", id)
}

// SavedJobOwner returns the owner of a bookmark.
func (r *OwnershipRepo) SavedJobOwner(ctx context.Context, id uint64) (uint64, error) {
	return r.singleOwner(ctx,
		"SELECT user_id FROM saved_jobs WHERE id=? LIMIT 1", id)
}

// UserSkillOwner returns the owner of a user skill entry.
func (r *OwnershipRepo) UserSkillOwner(ctx context.Context, id uint64) (uint64, error) {
	return r.singleOwner(ctx,
		"SELECT user_id FROM user_skills WHERE id=? LIMIT 1", id)
}
