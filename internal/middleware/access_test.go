package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minjae-dev/resume-hub/internal/model"
	"github.com/minjae-dev/resume-hub/internal/repository"
	"github.com/minjae-dev/resume-hub/internal/utils"
)

type fakeUsers struct {
	byID   map[uint64]model.User
	getErr error
}

var _ UserStore = (*fakeUsers)(nil)

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeTokens struct {
	hashByUser map[uint64]string
	getErr     error
}

var _ TokenStore = (*fakeTokens)(nil)

func (f *fakeTokens) GetHashByUserID(_ context.Context, userID uint64) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	h, ok := f.hashByUser[userID]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	return h, nil
}

// runGate sends one request with the given Authorization header
// through the middleware and reports the response plus the user the
// inner handler observed (nil when the gate blocked the request).
func runGate(t *testing.T, mw echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *model.User
	h := mw(func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			seen = &u
		}
		return c.String(http.StatusOK, "passed")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, seen
}

const accessSecret = "access-secret"

func accessToken(t *testing.T, userID uint64, ttlMin int) string {
	t.Helper()
	at, err := utils.NewAccessToken(accessSecret, userID, ttlMin)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return at.Token
}

func TestRequireAccessToken_FailureBranches(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{
		1: {ID: 1, Email: "a@b.com", Name: "A", Role: model.RoleApplicant, PasswordHash: "x"},
	}}
	mw := RequireAccessToken(accessSecret, users)

	cases := []struct {
		name    string
		authz   string
		wantMsg string
	}{
		{"no header", "", "authentication required"},
		{"wrong scheme", "Basic abc", "unsupported authentication scheme"},
		{"lowercase scheme", "bearer " + accessToken(t, 1, 5), "unsupported authentication scheme"},
		{"empty token", "Bearer ", "authentication required"},
		{"garbage token", "Bearer not.a.jwt", "token is not valid"},
		{"expired token", "Bearer " + accessToken(t, 1, -1), "token has expired"},
		{"unknown user", "Bearer " + accessToken(t, 99, 5), "user for this token no longer exists"},
	}
	for _, tc := range cases {
		rec, seen := runGate(t, mw, tc.authz)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %d", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.wantMsg) {
			t.Fatalf("%s: body %q missing %q", tc.name, rec.Body.String(), tc.wantMsg)
		}
		if seen != nil {
			t.Fatalf("%s: user must not be attached on failure", tc.name)
		}
	}
}

func TestRequireAccessToken_Success(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{
		1: {ID: 1, Email: "a@b.com", Name: "A", Role: model.RoleApplicant, PasswordHash: "hash"},
	}}
	mw := RequireAccessToken(accessSecret, users)

	rec, seen := runGate(t, mw, "Bearer "+accessToken(t, 1, 5))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if seen == nil {
		t.Fatalf("user must be attached on success")
	}
	if seen.ID != 1 || seen.Email != "a@b.com" {
		t.Fatalf("wrong user attached: %+v", seen)
	}
	if seen.PasswordHash != "" {
		t.Fatalf("password hash must be stripped before attaching")
	}
}

func TestRequireAccessToken_StoreFailure(t *testing.T) {
	t.Parallel()

	// A failing user lookup is a server fault, not a credential
	// defect: the caller must see 500, never 401.
	users := &fakeUsers{getErr: errors.New("connection refused")}
	mw := RequireAccessToken(accessSecret, users)

	rec, seen := runGate(t, mw, "Bearer "+accessToken(t, 1, 5))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("store failure: want 500, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("want generic server message, got %s", rec.Body.String())
	}
	if seen != nil {
		t.Fatalf("user must not be attached on store failure")
	}
}

func TestRequireAccessToken_RefusesRefreshToken(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1}}}
	mw := RequireAccessToken(accessSecret, users)

	rt, err := utils.NewRefreshToken("refresh-secret", 1, 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	rec, _ := runGate(t, mw, "Bearer "+rt.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token on access gate: want 401, got %d", rec.Code)
	}
}
