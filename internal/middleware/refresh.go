package middleware

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/minjae-dev/resume-hub/internal/repository"
    "github.com/minjae-dev/resume-hub/internal/utils"
)

// TokenStore is the slice of the token repository the refresh gate
// needs: looking up the single stored refresh hash for a user.
type TokenStore interface {
    GetHashByUserID(ctx context.Context, userID uint64) (string, error)
}

// RequireRefreshToken returns middleware that validates a Bearer
// refresh token for session-mutating routes (logout, re-token). It
// runs the same ladder as RequireAccessToken through signature and
// expiry, then additionally compares the presented token against the
// hash currently stored for the decoded user. A structurally valid
// token whose hash is absent or does not match has been superseded by
// a later issuance and fails as discarded, distinct from invalid.
// A store failure during either lookup is a 500, never a 401.
func RequireRefreshToken(secret string, tokens TokenStore, users UserStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, errMsg := bearerToken(c)
            if errMsg != "" {
                return unauthorized(c, errMsg)
            }

            userID, err := utils.VerifyToken(secret, raw)
            if err != nil {
                return unauthorized(c, verifyMessage(err))
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            // A fresh lookup on every verification: a token rotated
            // away by a concurrent login is refused immediately.
            storedHash, err := tokens.GetHashByUserID(ctx, userID)
            if err != nil {
                if errors.Is(err, repository.ErrTokenNotFound) {
                    return unauthorized(c, "token has been discarded")
                }
                return internalError(c)
            }
            if !utils.CompareRefreshHash(storedHash, raw) {
                return unauthorized(c, "token has been discarded")
            }

            u, err := users.GetByID(ctx, userID)
            if err != nil {
                if errors.Is(err, sql.ErrNoRows) {
                    return unauthorized(c, "user for this token no longer exists")
                }
                return internalError(c)
            }
            attachUser(c, u)
            return next(c)
        }
    }
}
