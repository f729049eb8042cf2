package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devhire/job-board/internal/model"
)

// SkillRepo covers the skills catalog and per-user skill entries.
type SkillRepo struct{ DB *sql.DB }

func NewSkillRepo(db *sql.DB) *SkillRepo { return &SkillRepo{DB: db} }

// ListCatalog returns every skill in the catalog.
func (r *SkillRepo) ListCatalog(ctx context.Context) ([]model.Skill, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM skills ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Skill
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByUser returns a user's skill entries.
func (r *SkillRepo) ListByUser(ctx context.Context, userID uint64) ([]model.UserSkill, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, skill_id, level FROM user_skills WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserSkill
	for rows.Next() {
		var s model.UserSkill
		if err := rows.Scan(&s.ID, &s.UserID, &s.SkillID, &s.Level); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Upsert inserts or updates the user's proficiency for a skill and
// returns the row id.
func (r *SkillRepo) Upsert(ctx context.Context, userID, skillID uint64, level int) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_skills (user_id, skill_id, level) VALUES (?,?,?) "+
			"ON DUPLICATE KEY UPDATE level=VALUES(level), id=LAST_INSERT_ID(id)",
		userID, skillID, level)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes a user skill entry by row id.
func (r *SkillRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM user_skills WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnerOf returns the owning user of a skill entry.
func (r *SkillRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM user_skills WHERE id=? LIMIT 1", id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}
