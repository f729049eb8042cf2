package model

import "time"

// Job types recognized by the matcher. Stored verbatim in jobs.job_type.
const (
    JobTypeFullTime = "FULL_TIME"
    JobTypePartTime = "PART_TIME"
    JobTypeContract = "CONTRACT"
    JobTypeRemote   = "REMOTE"
)

// Job is a posting created by a recruiter. A job is visible to matching
// while deleted_at is null and expires_at is null or in the future.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – recruiter who created the posting.
//  Title       – job title.
//  Description – long description text.
//  Location    – free-text location, compared case-insensitively.
//  JobType     – one of the JobType* constants.
//  Salary      – yearly salary in whole currency units.
//  ExpiresAt   – optional expiry; null means never expires.
//  DeletedAt   – soft-delete marker.
type Job struct {
    ID          uint64     // jobs.id
    UserID      uint64     // jobs.user_id
    Title       string     // jobs.title
    Description string     // jobs.description
    Location    string     // jobs.location
    JobType     string     // jobs.job_type
    Salary      int64      // jobs.salary
    ExpiresAt   *time.Time // jobs.expires_at (nullable)
    CreatedAt   time.Time  // jobs.created_at
    UpdatedAt   time.Time  // jobs.updated_at
    DeletedAt   *time.Time // jobs.deleted_at (nullable)

    // Skills is populated from job_skills by the repository; not a column.
    Skills []JobSkill
}

// JobSkill is a required skill on a job at a minimum proficiency level.
//
// Fields:
//  JobID   – owning job.
//  SkillID – reference into the skills catalog.
//  Level   – minimum required proficiency (1..3).
type JobSkill struct {
    JobID   uint64 // job_skills.job_id
    SkillID uint64 // job_skills.skill_id
    Level   int    // job_skills.level
}
