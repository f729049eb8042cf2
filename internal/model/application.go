package model

import "time"

// Application statuses. Transitions are driven by recruiters except for
// WITHDRAWN, which only the applicant can set.
const (
    ApplicationPending   = "PENDING"
    ApplicationReviewing = "REVIEWING"
    ApplicationInterview = "INTERVIEW"
    ApplicationOffered   = "OFFERED"
    ApplicationRejected  = "REJECTED"
    ApplicationWithdrawn = "WITHDRAWN"
)

// ValidApplicationStatus reports whether s is a known status value.
func ValidApplicationStatus(s string) bool {
    switch s {
    case ApplicationPending, ApplicationReviewing, ApplicationInterview,
        ApplicationOffered, ApplicationRejected, ApplicationWithdrawn:
        return true
    }
    return false
}

// Application records a developer applying to a job. RecruiterID is set
// when a recruiter is assigned to run the interview; it establishes a
// second ownership path independent of the job's creator, so either the
// posting recruiter or the assigned recruiter may act on the application.
//
// Fields:
//  ID          – primary key identifier.
//  JobID       – job applied to.
//  UserID      – applicant.
//  RecruiterID – recruiter assigned to the interview (nullable).
//  Status      – one of the Application* constants.
//  InterviewAt – scheduled interview time (nullable).
//  CoverLetter – free-text cover letter.
//  DeletedAt   – soft-delete marker, set on withdrawal.
type Application struct {
    ID          uint64     // applications.id
    JobID       uint64     // applications.job_id
    UserID      uint64     // applications.user_id
    RecruiterID *uint64    // applications.recruiter_id (nullable)
    Status      string     // applications.status
    InterviewAt *time.Time // applications.interview_at (nullable)
    CoverLetter string     // applications.cover_letter
    CreatedAt   time.Time  // applications.created_at
    UpdatedAt   time.Time  // applications.updated_at
    DeletedAt   *time.Time // applications.deleted_at (nullable)
}
