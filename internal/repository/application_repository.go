package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/devhire/job-board/internal/model"
)

// ApplicationRepo persists job applications, including the recruiter
// assignment and interview columns. Those are first-class here so no
// raw-SQL escape hatch is needed anywhere above this layer.
type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

const applicationColumns = "id,job_id,user_id,recruiter_id,status,interview_at,cover_letter,created_at,updated_at"

func scanApplication(scan func(dest ...any) error) (model.Application, error) {
	var a model.Application
	var recruiter sql.NullInt64
	var interview sql.NullTime
	err := scan(&a.ID, &a.JobID, &a.UserID, &recruiter, &a.Status,
		&interview, &a.CoverLetter, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	if recruiter.Valid {
		id := uint64(recruiter.Int64)
		a.RecruiterID = &id
	}
	if interview.Valid {
		t := interview.Time
		a.InterviewAt = &t
	}
	return a, nil
}

// Create inserts a PENDING application. A duplicate (job_id, user_id)
// pair surfaces as ErrConflict.
func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO applications (job_id, user_id, status, cover_letter) VALUES (?,?,?,?)",
		a.JobID, a.UserID, model.ApplicationPending, a.CoverLetter)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.ApplicationPending
	return nil
}

// GetByID fetches a live application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (model.Application, error) {
	a, err := scanApplication(r.DB.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE id=? AND deleted_at IS NULL LIMIT 1", id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, ErrNotFound
		}
		return a, err
	}
	return a, nil
}

// ListByUser returns a developer's live applications, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE user_id=? AND deleted_at IS NULL ORDER BY created_at DESC", userID)
}

// ListByJob returns the live applications for a job, oldest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID uint64) ([]model.Application, error) {
	return r.list(ctx,
		"SELECT "+applicationColumns+" FROM applications WHERE job_id=? AND deleted_at IS NULL ORDER BY created_at", jobID)
}

// AssignRecruiter sets the recruiter running the interview.
func (r *ApplicationRepo) AssignRecruiter(ctx context.Context, id, recruiterID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE applications SET recruiter_id=? WHERE id=? AND deleted_at IS NULL", recruiterID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves an application to a new status, optionally with an
// interview time (for INTERVIEW).
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uint64, status string, interviewAt *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE applications SET status=?, interview_at=? WHERE id=? AND deleted_at IS NULL",
		status, interviewAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Withdraw soft-deletes an application and marks it WITHDRAWN.
func (r *ApplicationRepo) Withdraw(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE applications SET status=?, deleted_at=NOW() WHERE id=? AND deleted_at IS NULL",
		model.ApplicationWithdrawn, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplicationSortQuery defines store-level sorting and pagination for a
// user's applications.
type ApplicationSortQuery struct {
	UserID uint64
	Field  string // "date_posted" or "salary" (salary of the applied job)
	Desc   bool
	Page   int
	Limit  int
}

// ListSorted returns one page of the user's applications ordered by a
// stored column, plus the total count.
func (r *ApplicationRepo) ListSorted(ctx context.Context, q ApplicationSortQuery) ([]model.Application, int64, error) {
	col := "a.created_at"
	if q.Field == "salary" {
		col = "j.salary"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM applications a WHERE a.user_id=? AND a.deleted_at IS NULL", q.UserID).
		Scan(&total); err != nil {
		return nil, 0, err
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	items, err := r.list(ctx,
		"SELECT a.id,a.job_id,a.user_id,a.recruiter_id,a.status,a.interview_at,a.cover_letter,a.created_at,a.updated_at "+
			"FROM applications a JOIN jobs j ON j.id = a.job_id "+
			"WHERE a.user_id=? AND a.deleted_at IS NULL "+
			"ORDER BY "+col+" "+dir+" LIMIT ? OFFSET ?",
		q.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ApplicationRepo) list(ctx context.Context, query string, args ...any) ([]model.Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
