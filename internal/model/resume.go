package model

import "time"

// Review statuses a resume moves through.  APPLIED is the initial
// status given on creation; the remaining values are assigned by
// recruiters via the status workflow.
const (
    StatusApplied   = "APPLIED"
    StatusDrop      = "DROP"
    StatusPass      = "PASS"
    StatusInterview = "INTERVIEW"
    StatusFinalPass = "FINAL_PASS"
)

// ResumeStatuses lists every valid resume status.  The order here is
// the order of the review pipeline and is used for validation
// messages only; transitions themselves are not restricted to
// adjacent statuses.
var ResumeStatuses = []string{
    StatusApplied,
    StatusDrop,
    StatusPass,
    StatusInterview,
    StatusFinalPass,
}

// ValidResumeStatus reports whether the given string is one of the
// enumerated resume statuses.
func ValidResumeStatus(status string) bool {
    for _, s := range ResumeStatuses {
        if s == status {
            return true
        }
    }
    return false
}

// Resume represents a row in the `resumes` table.  A resume is owned
// by the applicant who created it; the owner may edit title and
// content but never the status, which is mutated exclusively through
// the status workflow together with its audit log entry.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning applicant (immutable).
//  Title     – resume title.
//  Content   – free-text resume body.
//  Status    – current review status (see constants above).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Resume struct {
    ID        uint64    // resumes.id
    UserID    uint64    // resumes.user_id
    Title     string    // resumes.title
    Content   string    // resumes.content
    Status    string    // resumes.status
    CreatedAt time.Time // resumes.created_at
    UpdatedAt time.Time // resumes.updated_at
}

// ResumeLog is an append-only audit record in the `resume_logs`
// table.  Exactly one log row is written per status transition, in
// the same transaction that changes the resume, so the log and the
// resume can never disagree.  Rows are never updated or deleted.
//
// Fields:
//  ID          – primary key identifier.
//  ResumeID    – resume the transition applied to.
//  RecruiterID – recruiter who performed the transition.
//  OldStatus   – status read inside the transaction before the write.
//  NewStatus   – status written by the transition.
//  Reason      – mandatory free-text justification.
//  CreatedAt   – timestamp of the transition.
type ResumeLog struct {
    ID          uint64    // resume_logs.id
    ResumeID    uint64    // resume_logs.resume_id
    RecruiterID uint64    // resume_logs.recruiter_id
    OldStatus   string    // resume_logs.old_status
    NewStatus   string    // resume_logs.new_status
    Reason      string    // resume_logs.reason
    CreatedAt   time.Time // resume_logs.created_at
}
