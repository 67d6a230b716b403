package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/minjae-dev/resume-hub/internal/middleware"
    "github.com/minjae-dev/resume-hub/internal/model"
    "github.com/minjae-dev/resume-hub/internal/queue"
    "github.com/minjae-dev/resume-hub/internal/repository"
)

const resumeContentMinLength = 20

// ResumeStore is the resume persistence surface the handlers need.
// *repository.ResumeRepo satisfies it; tests substitute fakes.
type ResumeStore interface {
    Create(ctx context.Context, userID uint64, title, content string) (model.Resume, error)
    GetByID(ctx context.Context, id uint64) (model.Resume, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.Resume, error)
    ListAll(ctx context.Context) ([]model.Resume, error)
    Update(ctx context.Context, id, userID uint64, title, content *string) (model.Resume, error)
    Delete(ctx context.Context, id, userID uint64) error
    UpdateStatus(ctx context.Context, resumeID, recruiterID uint64, newStatus, reason string) (model.ResumeLog, error)
    ListLogs(ctx context.Context, resumeID uint64) ([]model.ResumeLog, error)
}

// StatusPublisher broadcasts a committed status transition to the
// message broker. It runs outside the transaction and its failure
// never affects the HTTP result.
type StatusPublisher func(ctx context.Context, event queue.ResumeStatusChangedEvent) error

// ResumeHandler bundles dependencies for the resume endpoints.
type ResumeHandler struct {
    Resumes ResumeStore
    Publish StatusPublisher
}

func NewResumeHandler(r ResumeStore, p StatusPublisher) *ResumeHandler {
    return &ResumeHandler{Resumes: r, Publish: p}
}

// ----- DTOs -----

type createResumeReq struct {
    ResumeTitle   string `json:"resumeTitle"`
    ResumeContent string `json:"resumeContent"`
}
type updateResumeReq struct {
    ResumeTitle   *string `json:"resumeTitle"`
    ResumeContent *string `json:"resumeContent"`
}
type updateStatusReq struct {
    ResumeStatus string `json:"resumeStatus"`
    Reason       string `json:"reason"`
}

type resumePart struct {
    ResumeID      uint64    `json:"resumeId"`
    UserID        uint64    `json:"userId"`
    ResumeTitle   string    `json:"resumeTitle"`
    ResumeContent string    `json:"resumeContent"`
    ResumeStatus  string    `json:"resumeStatus"`
    CreatedAt     time.Time `json:"createdAt"`
    UpdatedAt     time.Time `json:"updatedAt"`
}

func toResumePart(m model.Resume) resumePart {
    return resumePart{
        ResumeID:      m.ID,
        UserID:        m.UserID,
        ResumeTitle:   m.Title,
        ResumeContent: m.Content,
        ResumeStatus:  m.Status,
        CreatedAt:     m.CreatedAt,
        UpdatedAt:     m.UpdatedAt,
    }
}

type logPart struct {
    LogID       uint64    `json:"logId"`
    ResumeID    uint64    `json:"resumeId"`
    RecruiterID uint64    `json:"recruiterId"`
    OldStatus   string    `json:"oldStatus"`
    NewStatus   string    `json:"newStatus"`
    Reason      string    `json:"reason"`
    CreatedAt   time.Time `json:"createdAt"`
}

func toLogPart(l model.ResumeLog) logPart {
    return logPart{
        LogID:       l.ID,
        ResumeID:    l.ResumeID,
        RecruiterID: l.RecruiterID,
        OldStatus:   l.OldStatus,
        NewStatus:   l.NewStatus,
        Reason:      l.Reason,
        CreatedAt:   l.CreatedAt,
    }
}

func resumeIDParam(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("resumeId"), 10, 64)
    return id, err == nil && id > 0
}

// Create inserts a resume for the authenticated user with the
// initial APPLIED status.
func (h *ResumeHandler) Create(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    var req createResumeReq
    if err := c.Bind(&req); err != nil {
        return respondErr(c, http.StatusBadRequest, msgInvalidBody)
    }
    if strings.TrimSpace(req.ResumeTitle) == "" {
        return respondErr(c, http.StatusBadRequest, msgTitleRequired)
    }
    if strings.TrimSpace(req.ResumeContent) == "" {
        return respondErr(c, http.StatusBadRequest, msgContentRequired)
    }
    if len([]rune(req.ResumeContent)) < resumeContentMinLength {
        return respondErr(c, http.StatusBadRequest, msgContentTooShort)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Resumes.Create(ctx, u.ID, req.ResumeTitle, req.ResumeContent)
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    return respond(c, http.StatusCreated, msgResumeCreated, toResumePart(m))
}

// List returns the caller's resumes; recruiters see every resume.
// Newest first in both cases.
func (h *ResumeHandler) List(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var (
        list []model.Resume
        err  error
    )
    if u.Role == model.RoleRecruiter {
        list, err = h.Resumes.ListAll(ctx)
    } else {
        list, err = h.Resumes.ListByUser(ctx, u.ID)
    }
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    out := make([]resumePart, 0, len(list))
    for _, m := range list {
        out = append(out, toResumePart(m))
    }
    return respond(c, http.StatusOK, msgResumeList, out)
}

// Detail returns a single resume. Applicants may only read their
// own; recruiters may read any.
func (h *ResumeHandler) Detail(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    id, ok := resumeIDParam(c)
    if !ok {
        return respondErr(c, http.StatusBadRequest, msgInvalidResumeID)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Resumes.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrResumeNotFound) {
            return respondErr(c, http.StatusNotFound, msgResumeNotFound)
        }
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    if u.Role != model.RoleRecruiter && m.UserID != u.ID {
        return respondErr(c, http.StatusForbidden, msgResumeForbidden)
    }
    return respond(c, http.StatusOK, msgResumeDetail, toResumePart(m))
}

// Update edits title and/or content of the caller's own resume. The
// status field is out of reach here; only the status workflow
// touches it.
func (h *ResumeHandler) Update(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    id, ok := resumeIDParam(c)
    if !ok {
        return respondErr(c, http.StatusBadRequest, msgInvalidResumeID)
    }
    var req updateResumeReq
    if err := c.Bind(&req); err != nil {
        return respondErr(c, http.StatusBadRequest, msgInvalidBody)
    }
    if req.ResumeTitle == nil && req.ResumeContent == nil {
        return respondErr(c, http.StatusBadRequest, msgNothingToUpdate)
    }
    if req.ResumeContent != nil && len([]rune(*req.ResumeContent)) < resumeContentMinLength {
        return respondErr(c, http.StatusBadRequest, msgContentTooShort)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Resumes.Update(ctx, id, u.ID, req.ResumeTitle, req.ResumeContent)
    if err != nil {
        return h.resumeError(c, err)
    }
    return respond(c, http.StatusOK, msgResumeUpdated, toResumePart(m))
}

// Delete removes the caller's own resume.
func (h *ResumeHandler) Delete(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    id, ok := resumeIDParam(c)
    if !ok {
        return respondErr(c, http.StatusBadRequest, msgInvalidResumeID)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Resumes.Delete(ctx, id, u.ID); err != nil {
        return h.resumeError(c, err)
    }
    return respond(c, http.StatusOK, msgResumeDeleted, echo.Map{"resumeId": id})
}

// UpdateStatus transitions a resume's review status. The route is
// gated to recruiters; this handler validates the payload, runs the
// atomic transition, and only then, with the transaction committed,
// hands the event to the broker and writes the response.
func (h *ResumeHandler) UpdateStatus(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    id, ok := resumeIDParam(c)
    if !ok {
        return respondErr(c, http.StatusBadRequest, msgInvalidResumeID)
    }
    var req updateStatusReq
    if err := c.Bind(&req); err != nil {
        return respondErr(c, http.StatusBadRequest, msgInvalidBody)
    }
    if req.ResumeStatus == "" {
        return respondErr(c, http.StatusBadRequest, msgStatusRequired)
    }
    if !model.ValidResumeStatus(req.ResumeStatus) {
        return respondErr(c, http.StatusBadRequest, msgStatusInvalid)
    }
    if strings.TrimSpace(req.Reason) == "" {
        return respondErr(c, http.StatusBadRequest, msgReasonRequired)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    entry, err := h.Resumes.UpdateStatus(ctx, id, u.ID, req.ResumeStatus, req.Reason)
    if err != nil {
        if errors.Is(err, repository.ErrResumeNotFound) {
            return respondErr(c, http.StatusNotFound, msgResumeNotFound)
        }
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }

    if h.Publish != nil {
        event := queue.ResumeStatusChangedEvent{
            LogID:       entry.ID,
            ResumeID:    entry.ResumeID,
            RecruiterID: entry.RecruiterID,
            OldStatus:   entry.OldStatus,
            NewStatus:   entry.NewStatus,
            Reason:      entry.Reason,
            ChangedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
        }
        go func() {
            pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer pubCancel()
            if err := h.Publish(pubCtx, event); err != nil {
                log.Printf("resume-status: publish event failed: %v", err)
            }
        }()
    }
    return respond(c, http.StatusOK, msgStatusChanged, toLogPart(entry))
}

// Logs returns a resume's status history, newest first.
func (h *ResumeHandler) Logs(c echo.Context) error {
    id, ok := resumeIDParam(c)
    if !ok {
        return respondErr(c, http.StatusBadRequest, msgInvalidResumeID)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    logs, err := h.Resumes.ListLogs(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrResumeNotFound) {
            return respondErr(c, http.StatusNotFound, msgResumeNotFound)
        }
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    out := make([]logPart, 0, len(logs))
    for _, l := range logs {
        out = append(out, toLogPart(l))
    }
    return respond(c, http.StatusOK, msgStatusLogList, out)
}

func (h *ResumeHandler) resumeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrResumeNotFound):
        return respondErr(c, http.StatusNotFound, msgResumeNotFound)
    case errors.Is(err, repository.ErrForbidden):
        return respondErr(c, http.StatusForbidden, msgResumeForbidden)
    default:
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
}
