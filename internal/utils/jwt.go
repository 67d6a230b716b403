package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // random token identifiers
    "crypto/sha256" // SHA-256 hashing for stored refresh tokens
    "crypto/subtle" // constant-time comparison of refresh hashes
    "encoding/hex"  // hex encoding for hash digests
    "errors"        // sentinel errors for verification failures
    "time"          // expiry calculations

    "github.com/golang-jwt/jwt/v5" // JWT library for signing and parsing tokens
)

// Verification failure kinds.  Callers distinguish an expired token
// from every other defect (bad signature, malformed structure,
// unexpected algorithm) with errors.Is.
var (
    ErrTokenExpired = errors.New("token has expired")
    ErrTokenInvalid = errors.New("token is not valid")
)

// AccessToken is a signed short-lived JWT returned to the client and
// presented on every protected request.  Exp stores the UTC expiry.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// RefreshToken is a signed long-lived JWT used solely to obtain new
// token pairs.  Only its SHA-256 hash is persisted; the raw string
// goes back to the client.
type RefreshToken struct {
    Token string
    Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT carrying the user id.
// Access tokens are stateless: verification needs only the signature
// and expiry, never a store lookup.
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    signed, err := signToken(secret, userID, exp)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT carrying the user id
// with a days-scale expiry.  The refresh secret must differ from the
// access secret so the two token kinds are not interchangeable.
// Every token carries a random jti, so two issuances for the same
// user are never byte-identical and rotation always replaces the
// stored hash with a different value.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    signed, err := signToken(secret, userID, exp)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, Exp: exp}, nil
}

func signToken(secret string, userID uint64, exp time.Time) (string, error) {
    jti, err := randomHex(16)
    if err != nil {
        return "", err
    }
    claims := jwt.MapClaims{
        "userId": userID,
        "jti":    jti,
        "exp":    exp.Unix(),
        "iat":    time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// randomHex returns n cryptographically random bytes as a hex string.
func randomHex(n int) (string, error) {
    b := make([]byte, n)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// VerifyToken parses a signed token and returns the user id it
// carries.  An expired token fails with ErrTokenExpired; any other
// defect (wrong signature, wrong algorithm, malformed claims) fails
// with ErrTokenInvalid.
func VerifyToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return 0, ErrTokenExpired
        }
        return 0, ErrTokenInvalid
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    // Numeric JSON claims decode as float64.
    id, ok := claims["userId"].(float64)
    if !ok || id <= 0 {
        return 0, ErrTokenInvalid
    }
    return uint64(id), nil
}

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as a
// hex string.  Storing only the hash keeps stolen database rows from
// being replayed as live sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// CompareRefreshHash reports whether the presented raw refresh token
// hashes to the stored digest, in constant time.
func CompareRefreshHash(storedHash, raw string) bool {
    presented := HashRefreshRaw(raw)
    return subtle.ConstantTimeCompare([]byte(storedHash), []byte(presented)) == 1
}
