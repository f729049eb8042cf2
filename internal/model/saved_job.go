package model

import "time"

// SavedJob bookmarks a job for a user. The (user_id, job_id) pair is
// unique in the table.
//
// Fields:
//  ID     – primary key identifier.
//  UserID – user who saved the job.
//  JobID  – saved job.
type SavedJob struct {
    ID        uint64    // saved_jobs.id
    UserID    uint64    // saved_jobs.user_id
    JobID     uint64    // saved_jobs.job_id
    CreatedAt time.Time // saved_jobs.created_at
}
