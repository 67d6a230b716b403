package utils

import (
	"errors"
	"testing"
)

func TestVerifyToken_RoundTrip(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("access-secret", 42, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	id, err := VerifyToken("access-secret", at.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if id != 42 {
		t.Fatalf("want userId 42, got %d", id)
	}

	rt, err := NewRefreshToken("refresh-secret", 42, 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	id, err = VerifyToken("refresh-secret", rt.Token)
	if err != nil {
		t.Fatalf("VerifyToken refresh: %v", err)
	}
	if id != 42 {
		t.Fatalf("want userId 42, got %d", id)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	// Negative TTL puts the expiry in the past; the signature is
	// still valid, so this isolates the expiry branch.
	at, err := NewAccessToken("s", 7, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := VerifyToken("s", at.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerifyToken_Invalid(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("right-secret", 7, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := VerifyToken("wrong-secret", at.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret: want ErrTokenInvalid, got %v", err)
	}
	if _, err := VerifyToken("right-secret", "not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage: want ErrTokenInvalid, got %v", err)
	}
	if _, err := VerifyToken("right-secret", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("empty: want ErrTokenInvalid, got %v", err)
	}
}

func TestNewRefreshToken_UniquePerIssuance(t *testing.T) {
	t.Parallel()

	// Two back-to-back issuances land in the same second; the jti is
	// what keeps them distinct. If they ever compared equal, rotating
	// a session would leave the old token matching the stored hash.
	first, err := NewRefreshToken("s", 1, 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	second, err := NewRefreshToken("s", 1, 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("two issuances must never produce the same token")
	}
	if HashRefreshRaw(first.Token) == HashRefreshRaw(second.Token) {
		t.Fatalf("two issuances must never hash to the same digest")
	}

	a, err := NewAccessToken("s", 1, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	b, err := NewAccessToken("s", 1, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if a.Token == b.Token {
		t.Fatalf("access tokens must be unique per issuance too")
	}
}

func TestVerifyToken_SecretsNotInterchangeable(t *testing.T) {
	t.Parallel()

	rt, err := NewRefreshToken("refresh-secret", 9, 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if _, err := VerifyToken("access-secret", rt.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token must not verify under the access secret, got %v", err)
	}
}

func TestCompareRefreshHash(t *testing.T) {
	t.Parallel()

	raw := "some.refresh.token"
	hash := HashRefreshRaw(raw)
	if hash != HashRefreshRaw(raw) {
		t.Fatalf("hash must be deterministic")
	}
	if !CompareRefreshHash(hash, raw) {
		t.Fatalf("matching token must compare true")
	}
	if CompareRefreshHash(hash, raw+"x") {
		t.Fatalf("different token must compare false")
	}
	if CompareRefreshHash("", raw) {
		t.Fatalf("empty stored hash must compare false")
	}
}
