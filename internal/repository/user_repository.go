package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/devhire/job-board/internal/model"
	"github.com/devhire/job-board/internal/utils"
)

// UserRepo persists users and the auth-relevant columns token_version and
// last_active_at.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,role,token_version,last_active_at,location,preferred_job_type,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var lastActive sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.TokenVersion,
		&lastActive, &u.Location, &u.PreferredJobType, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrNotFound
		}
		return u, err
	}
	if lastActive.Valid {
		t := lastActive.Time
		u.LastActiveAt = &t
	}
	return u, nil
}

// Create inserts a user and returns its ID. The email is normalized to
// lowercase and the password is bcrypt-hashed with the given cost.
func (r *UserRepo) Create(ctx context.Context, email, password, role, location, jobType string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, location, preferred_job_type) VALUES (?,?,?,?,?)",
		email, hash, role, location, jobType)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a live user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND deleted_at IS NULL LIMIT 1", email))
}

// GetByID fetches a live user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND deleted_at IS NULL LIMIT 1", id))
}

// IncrementTokenVersion atomically bumps the user's token_version and
// returns the new value. LAST_INSERT_ID() scopes the readback to this
// connection, so two concurrent rotations cannot observe the same result.
func (r *UserRepo) IncrementTokenVersion(ctx context.Context, id uint64) (int64, error) {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx,
		"UPDATE users SET token_version = LAST_INSERT_ID(token_version + 1) WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	var version int64
	if err := conn.QueryRowContext(ctx, "SELECT LAST_INSERT_ID()").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// UpdateLastActive stamps the user's last authenticated activity.
func (r *UserRepo) UpdateLastActive(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_active_at=? WHERE id=? AND deleted_at IS NULL", at.UTC(), id)
	return err
}

// ListDevelopers returns live DEVELOPER users, excluding excludeID, with
// their skills loaded. Used by candidate recommendations.
func (r *UserRepo) ListDevelopers(ctx context.Context, excludeID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role=? AND deleted_at IS NULL AND id<>? ORDER BY id",
		model.RoleDeveloper, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	index := map[uint64]int{}
	for rows.Next() {
		var u model.User
		var lastActive sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.TokenVersion,
			&lastActive, &u.Location, &u.PreferredJobType, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			t := lastActive.Time
			u.LastActiveAt = &t
		}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}

	skillRows, err := r.DB.QueryContext(ctx,
		"SELECT us.id, us.user_id, us.skill_id, us.level FROM user_skills us "+
			"JOIN users u ON u.id = us.user_id "+
			"WHERE u.role=? AND u.deleted_at IS NULL AND u.id<>?",
		model.RoleDeveloper, excludeID)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()
	for skillRows.Next() {
		var s model.UserSkill
		if err := skillRows.Scan(&s.ID, &s.UserID, &s.SkillID, &s.Level); err != nil {
			return nil, err
		}
		if i, ok := index[s.UserID]; ok {
			users[i].Skills = append(users[i].Skills, s)
		}
	}
	return users, skillRows.Err()
}
