package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minjae-dev/resume-hub/internal/model"
)

// runRoleGate invokes RequireRoles with an optionally pre-attached
// user, the way an access gate would have left the context.
func runRoleGate(t *testing.T, user *model.User, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/resumes/1/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		attachUser(c, *user)
	}

	h := RequireRoles(roles...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "passed")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	recruiter := model.User{ID: 1, Role: model.RoleRecruiter}
	applicant := model.User{ID: 2, Role: model.RoleApplicant}

	if rec := runRoleGate(t, &recruiter, model.RoleRecruiter); rec.Code != http.StatusOK {
		t.Fatalf("matching role: want 200, got %d", rec.Code)
	}
	if rec := runRoleGate(t, &applicant, model.RoleRecruiter); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: want 403, got %d", rec.Code)
	}
	if rec := runRoleGate(t, nil, model.RoleRecruiter); rec.Code != http.StatusForbidden {
		t.Fatalf("no attached user: want 403, got %d", rec.Code)
	}
	if rec := runRoleGate(t, &applicant, model.RoleApplicant, model.RoleRecruiter); rec.Code != http.StatusOK {
		t.Fatalf("role in set: want 200, got %d", rec.Code)
	}
}
