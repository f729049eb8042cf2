package model

// Skill proficiency levels. Stored as small integers so that levels can be
// compared numerically: holding a skill at or above the required level is
// full credit for matching purposes.
const (
    LevelBeginner     = 1
    LevelIntermediate = 2
    LevelExpert       = 3
)

// ValidLevel reports whether n is a known proficiency level.
func ValidLevel(n int) bool {
    return n >= LevelBeginner && n <= LevelExpert
}

// Skill is a row in the `skills` catalog table.
//
// Fields:
//  ID   – numeric identifier of the skill.
//  Name – unique skill name (e.g. "Go", "PostgreSQL").
type Skill struct {
    ID   uint64 // skills.id
    Name string // skills.name
}

// UserSkill links a user to a catalog skill at a proficiency level.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – owner of the skill entry.
//  SkillID – reference into the skills catalog.
//  Level   – proficiency (1=beginner, 2=intermediate, 3=expert).
type UserSkill struct {
    ID      uint64 // user_skills.id
    UserID  uint64 // user_skills.user_id
    SkillID uint64 // user_skills.skill_id
    Level   int    // user_skills.level
}
