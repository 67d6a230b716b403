package middleware

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/minjae-dev/resume-hub/internal/model"
	"github.com/minjae-dev/resume-hub/internal/utils"
)

const refreshSecret = "refresh-secret"

func refreshToken(t *testing.T, userID uint64, ttlDays int) string {
	t.Helper()
	rt, err := utils.NewRefreshToken(refreshSecret, userID, ttlDays)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	return rt.Token
}

func TestRequireRefreshToken_Success(t *testing.T) {
	t.Parallel()

	raw := refreshToken(t, 1, 7)
	users := &fakeUsers{byID: map[uint64]model.User{
		1: {ID: 1, Email: "a@b.com", Role: model.RoleApplicant, PasswordHash: "hash"},
	}}
	tokens := &fakeTokens{hashByUser: map[uint64]string{1: utils.HashRefreshRaw(raw)}}

	rec, seen := runGate(t, RequireRefreshToken(refreshSecret, tokens, users), "Bearer "+raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if seen == nil || seen.ID != 1 {
		t.Fatalf("user must be attached on success, got %+v", seen)
	}
	if seen.PasswordHash != "" {
		t.Fatalf("password hash must be stripped")
	}
}

func TestRequireRefreshToken_Discarded(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1}}}

	// No stored record at all: the token was valid once (or never
	// issued) but is not the registered one.
	raw := refreshToken(t, 1, 7)
	tokens := &fakeTokens{hashByUser: map[uint64]string{}}
	rec, _ := runGate(t, RequireRefreshToken(refreshSecret, tokens, users), "Bearer "+raw)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "discarded") {
		t.Fatalf("absent record: want 401 discarded, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRefreshToken_RotationInvalidatesOldToken(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1}}}

	oldRaw := refreshToken(t, 1, 7)
	newRaw := refreshToken(t, 1, 14) // later issuance replaces the stored hash
	tokens := &fakeTokens{hashByUser: map[uint64]string{1: utils.HashRefreshRaw(newRaw)}}
	mw := RequireRefreshToken(refreshSecret, tokens, users)

	// The old token is unexpired and correctly signed, yet it no
	// longer matches the stored hash: DiscardedToken, not Invalid.
	rec, seen := runGate(t, mw, "Bearer "+oldRaw)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "discarded") {
		t.Fatalf("superseded token: want 401 discarded, got %d %s", rec.Code, rec.Body.String())
	}
	if seen != nil {
		t.Fatalf("user must not be attached for a discarded token")
	}

	// The latest token still passes.
	rec, _ = runGate(t, mw, "Bearer "+newRaw)
	if rec.Code != http.StatusOK {
		t.Fatalf("current token: want 200, got %d", rec.Code)
	}
}

func TestRequireRefreshToken_ExpiredAndInvalid(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1}}}
	tokens := &fakeTokens{hashByUser: map[uint64]string{}}
	mw := RequireRefreshToken(refreshSecret, tokens, users)

	rec, _ := runGate(t, mw, "Bearer "+refreshToken(t, 1, -1))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "expired") {
		t.Fatalf("expired: want 401 expired, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = runGate(t, mw, "Bearer garbage")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "not valid") {
		t.Fatalf("garbage: want 401 invalid, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRefreshToken_StoreFailure(t *testing.T) {
	t.Parallel()

	raw := refreshToken(t, 1, 7)

	// Token store unreachable: 500, not "discarded".
	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1}}}
	tokens := &fakeTokens{getErr: errors.New("connection refused")}
	rec, _ := runGate(t, RequireRefreshToken(refreshSecret, tokens, users), "Bearer "+raw)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("token store failure: want 500, got %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "discarded") {
		t.Fatalf("store failure must not masquerade as a discarded token")
	}

	// User store unreachable after the hash matched: also 500.
	tokens = &fakeTokens{hashByUser: map[uint64]string{1: utils.HashRefreshRaw(raw)}}
	users = &fakeUsers{getErr: errors.New("connection refused")}
	rec, seen := runGate(t, RequireRefreshToken(refreshSecret, tokens, users), "Bearer "+raw)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("user store failure: want 500, got %d (%s)", rec.Code, rec.Body.String())
	}
	if seen != nil {
		t.Fatalf("user must not be attached on store failure")
	}
}

func TestRequireRefreshToken_NoUser(t *testing.T) {
	t.Parallel()

	raw := refreshToken(t, 2, 7)
	users := &fakeUsers{byID: map[uint64]model.User{}}
	tokens := &fakeTokens{hashByUser: map[uint64]string{2: utils.HashRefreshRaw(raw)}}

	rec, _ := runGate(t, RequireRefreshToken(refreshSecret, tokens, users), "Bearer "+raw)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "no longer exists") {
		t.Fatalf("deleted user: want 401 no-user, got %d %s", rec.Code, rec.Body.String())
	}
}
