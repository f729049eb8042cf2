package model

import "time"

// Role names stored in users.role. The set is closed; anything else in a
// token payload is treated as tampering by the role middleware.
const (
    RoleDeveloper = "DEVELOPER"
    RoleRecruiter = "RECRUITER"
    RoleAdmin     = "ADMIN"
)

// ValidRole reports whether r is one of the known role names.
func ValidRole(r string) bool {
    switch r {
    case RoleDeveloper, RoleRecruiter, RoleAdmin:
        return true
    }
    return false
}

// User represents an application user record as stored in the `users`
// table. TokenVersion is a per-user monotonic counter: a refresh token is
// only honored while the version embedded in it equals the stored value,
// which makes bumping the counter an instant logout-everywhere.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Email            – unique email address (stored lowercase).
//  PasswordHash     – bcrypt hashed password.
//  Role             – DEVELOPER, RECRUITER or ADMIN.
//  TokenVersion     – refresh-token generation counter, starts at 0.
//  LastActiveAt     – last authenticated activity (null until first login).
//  Location         – free-text location used for job matching.
//  PreferredJobType – preferred job type (FULL_TIME, PART_TIME, ...).
//  IsActive         – whether the account is active.
//  DeletedAt        – soft-delete marker (null when live).
type User struct {
    ID               uint64     // users.id
    Email            string     // users.email
    PasswordHash     string     // users.password_hash
    Role             string     // users.role
    TokenVersion     int64      // users.token_version
    LastActiveAt     *time.Time // users.last_active_at (nullable)
    Location         string     // users.location
    PreferredJobType string     // users.preferred_job_type
    IsActive         bool       // users.is_active
    CreatedAt        time.Time  // users.created_at
    UpdatedAt        time.Time  // users.updated_at
    DeletedAt        *time.Time // users.deleted_at (nullable)

    // Skills is populated by repository methods that join user_skills;
    // it is not a column.
    Skills []UserSkill
}
