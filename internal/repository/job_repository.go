package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/devhire/job-board/internal/model"
)

// JobRepo persists job postings and their required skills.
type JobRepo struct{ DB *sql.DB }

func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{DB: db} }

const jobColumns = "id,user_id,title,description,location,job_type,salary,expires_at,created_at,updated_at"

func scanJobRow(rows *sql.Rows) (model.Job, error) {
	var j model.Job
	var expires sql.NullTime
	err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.Location,
		&j.JobType, &j.Salary, &expires, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return j, err
	}
	if expires.Valid {
		t := expires.Time
		j.ExpiresAt = &t
	}
	return j, nil
}

// Create inserts a job and its required skills in one transaction.
func (r *JobRepo) Create(ctx context.Context, j *model.Job) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO jobs (user_id, title, description, location, job_type, salary, expires_at) VALUES (?,?,?,?,?,?,?)",
		j.UserID, j.Title, j.Description, j.Location, j.JobType, j.Salary, j.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	for i := range j.Skills {
		j.Skills[i].JobID = j.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO job_skills (job_id, skill_id, level) VALUES (?,?,?)",
			j.ID, j.Skills[i].SkillID, j.Skills[i].Level); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID fetches a live job with its required skills.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (model.Job, error) {
	var j model.Job
	var expires sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id=? AND deleted_at IS NULL LIMIT 1", id).
		Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.Location,
			&j.JobType, &j.Salary, &expires, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return j, ErrNotFound
		}
		return j, err
	}
	if expires.Valid {
		t := expires.Time
		j.ExpiresAt = &t
	}
	skills, err := r.skillsFor(ctx, []uint64{j.ID})
	if err != nil {
		return j, err
	}
	j.Skills = skills[j.ID]
	return j, nil
}

// Update rewrites the mutable job fields and replaces the skill set.
func (r *JobRepo) Update(ctx context.Context, j *model.Job) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE jobs SET title=?, description=?, location=?, job_type=?, salary=?, expires_at=? WHERE id=? AND deleted_at IS NULL",
		j.Title, j.Description, j.Location, j.JobType, j.Salary, j.ExpiresAt, j.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; confirm it is live.
		var one int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM jobs WHERE id=? AND deleted_at IS NULL", j.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM job_skills WHERE job_id=?", j.ID); err != nil {
		return err
	}
	for i := range j.Skills {
		j.Skills[i].JobID = j.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO job_skills (job_id, skill_id, level) VALUES (?,?,?)",
			j.ID, j.Skills[i].SkillID, j.Skills[i].Level); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SoftDelete marks a job as deleted.
func (r *JobRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE jobs SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCreator returns all live jobs posted by a recruiter.
func (r *JobRepo) ListByCreator(ctx context.Context, userID uint64) ([]model.Job, error) {
	return r.list(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE user_id=? AND deleted_at IS NULL ORDER BY created_at DESC", userID)
}

// ListOpen returns live, unexpired jobs with their skills. Recommendation
// scoring materializes this set fully because the score is derived, not a
// stored column.
func (r *JobRepo) ListOpen(ctx context.Context) ([]model.Job, error) {
	return r.list(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE deleted_at IS NULL AND (expires_at IS NULL OR expires_at > NOW()) ORDER BY id")
}

// JobSortQuery defines store-level sorting and pagination for jobs.
type JobSortQuery struct {
	Field string // "date_posted" or "salary"
	Desc  bool
	Page  int
	Limit int
}

// ListSorted returns one page of open jobs ordered by a stored column,
// plus the total count of matching rows.
func (r *JobRepo) ListSorted(ctx context.Context, q JobSortQuery) ([]model.Job, int64, error) {
	col := "created_at"
	if q.Field == "salary" {
		col = "salary"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	cond := "deleted_at IS NULL AND (expires_at IS NULL OR expires_at > NOW())"

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jobs WHERE "+cond).Scan(&total); err != nil {
		return nil, 0, err
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	jobs, err := r.list(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE "+cond+
			" ORDER BY "+col+" "+dir+" LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepo) list(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.Job
	var ids []uint64
	index := map[uint64]int{}
	for rows.Next() {
		j, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		index[j.ID] = len(jobs)
		jobs = append(jobs, j)
		ids = append(ids, j.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return jobs, nil
	}
	skills, err := r.skillsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, i := range index {
		jobs[i].Skills = skills[id]
	}
	return jobs, nil
}

// skillsFor loads job_skills rows for the given job ids in one query.
func (r *JobRepo) skillsFor(ctx context.Context, ids []uint64) (map[uint64][]model.JobSkill, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT job_id, skill_id, level FROM job_skills WHERE job_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64][]model.JobSkill{}
	for rows.Next() {
		var s model.JobSkill
		if err := rows.Scan(&s.JobID, &s.SkillID, &s.Level); err != nil {
			return nil, err
		}
		out[s.JobID] = append(out[s.JobID], s)
	}
	return out, rows.Err()
}
