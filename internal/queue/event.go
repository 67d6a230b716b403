// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusQueueName is the queue resume status transitions are
// published to and consumed from.
const StatusQueueName = "resume.status.changed"

// ResumeStatusChangedEvent is published after a status transition has
// committed. It carries enough information for downstream consumers
// to log or notify without querying the primary database.
type ResumeStatusChangedEvent struct {
    LogID       uint64 `json:"log_id"`
    ResumeID    uint64 `json:"resume_id"`
    RecruiterID uint64 `json:"recruiter_id"`
    OldStatus   string `json:"old_status"`
    NewStatus   string `json:"new_status"`
    Reason      string `json:"reason"`
    ChangedAt   string `json:"changed_at"`
}
