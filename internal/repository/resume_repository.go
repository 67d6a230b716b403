package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minjae-dev/resume-hub/internal/model"
)

// ResumeRepo provides CRUD operations for resumes and their
// append-only status logs. All timestamps are stored in UTC.
type ResumeRepo struct{ DB *sql.DB }

func NewResumeRepo(db *sql.DB) *ResumeRepo { return &ResumeRepo{DB: db} }

const resumeColumns = "id,user_id,title,content,status,created_at,updated_at"

func scanResume(row *sql.Row) (model.Resume, error) {
	var m model.Resume
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Content, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resume{}, ErrResumeNotFound
	}
	return m, err
}

// Create inserts a resume with the initial APPLIED status and returns
// the full row.
func (r *ResumeRepo) Create(ctx context.Context, userID uint64, title, content string) (model.Resume, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO resumes (user_id, title, content, status) VALUES (?,?,?,?)",
		userID, title, content, model.StatusApplied)
	if err != nil {
		return model.Resume{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Resume{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a resume by id, failing with ErrResumeNotFound when
// it does not exist.
func (r *ResumeRepo) GetByID(ctx context.Context, id uint64) (model.Resume, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE id=? LIMIT 1", id)
	return scanResume(row)
}

// ListByUser returns the given applicant's resumes, newest first.
func (r *ResumeRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Resume, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

// ListAll returns every resume, newest first. Used by recruiters.
func (r *ResumeRepo) ListAll(ctx context.Context) ([]model.Resume, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resumeColumns+" FROM resumes ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectResumes(rows)
}

func collectResumes(rows *sql.Rows) ([]model.Resume, error) {
	defer rows.Close()
	out := []model.Resume{}
	for rows.Next() {
		var m model.Resume
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Content, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update changes title and/or content of a resume owned by userID.
// Nil fields are left untouched. The status column is deliberately
// out of reach of this method; only UpdateStatus may change it.
func (r *ResumeRepo) Update(ctx context.Context, id, userID uint64, title, content *string) (model.Resume, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Resume{}, err
	}
	if m.UserID != userID {
		return model.Resume{}, ErrForbidden
	}
	newTitle, newContent := m.Title, m.Content
	if title != nil {
		newTitle = *title
	}
	if content != nil {
		newContent = *content
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE resumes SET title=?, content=?, updated_at=NOW() WHERE id=?",
		newTitle, newContent, id)
	if err != nil {
		return model.Resume{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a resume owned by userID together with its logs.
func (r *ResumeRepo) Delete(ctx context.Context, id, userID uint64) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM resumes WHERE id=?", id)
	return err
}

// UpdateStatus transitions a resume's status and appends the audit
// log row as one atomic unit. The resume row is read under FOR UPDATE
// so the captured old status cannot be changed by a concurrent
// transition before the write lands; a reader can never observe the
// new status without its log row or the log row without the status.
// On any failure the transaction is rolled back and no partial state
// remains. An unrecognized newStatus is a programming error on the
// caller's side and is refused before the transaction opens.
func (r *ResumeRepo) UpdateStatus(ctx context.Context, resumeID, recruiterID uint64, newStatus, reason string) (model.ResumeLog, error) {
	if !model.ValidResumeStatus(newStatus) {
		return model.ResumeLog{}, fmt.Errorf("unknown resume status %q", newStatus)
	}

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return model.ResumeLog{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var oldStatus string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM resumes WHERE id=? FOR UPDATE", resumeID).Scan(&oldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResumeLog{}, ErrResumeNotFound
	}
	if err != nil {
		return model.ResumeLog{}, err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE resumes SET status=?, updated_at=NOW() WHERE id=?",
		newStatus, resumeID); err != nil {
		return model.ResumeLog{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO resume_logs (resume_id, recruiter_id, old_status, new_status, reason) VALUES (?,?,?,?,?)",
		resumeID, recruiterID, oldStatus, newStatus, reason)
	if err != nil {
		return model.ResumeLog{}, err
	}
	logID, err := res.LastInsertId()
	if err != nil {
		return model.ResumeLog{}, err
	}

	var entry model.ResumeLog
	err = tx.QueryRowContext(ctx,
		"SELECT id,resume_id,recruiter_id,old_status,new_status,reason,created_at FROM resume_logs WHERE id=?",
		logID).Scan(&entry.ID, &entry.ResumeID, &entry.RecruiterID, &entry.OldStatus, &entry.NewStatus, &entry.Reason, &entry.CreatedAt)
	if err != nil {
		return model.ResumeLog{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.ResumeLog{}, err
	}
	return entry, nil
}

// ListLogs returns a resume's status history, newest first. It fails
// with ErrResumeNotFound when the resume itself does not exist so
// handlers can distinguish an empty history from a bad id.
func (r *ResumeRepo) ListLogs(ctx context.Context, resumeID uint64) ([]model.ResumeLog, error) {
	if _, err := r.GetByID(ctx, resumeID); err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,resume_id,recruiter_id,old_status,new_status,reason,created_at FROM resume_logs WHERE resume_id=? ORDER BY created_at DESC, id DESC",
		resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ResumeLog{}
	for rows.Next() {
		var l model.ResumeLog
		if err := rows.Scan(&l.ID, &l.ResumeID, &l.RecruiterID, &l.OldStatus, &l.NewStatus, &l.Reason, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
