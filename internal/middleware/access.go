package middleware // reusable HTTP middleware gating protected routes

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/minjae-dev/resume-hub/internal/model"
    "github.com/minjae-dev/resume-hub/internal/utils"
)

// UserStore is the slice of the user repository the auth middleware
// needs: resolving a decoded user id to a live user record.
type UserStore interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// userContextKey is where the resolved user is stored on the Echo
// context. Handlers read it back with CurrentUser.
const userContextKey = "user"

// CurrentUser returns the user attached by RequireAccessToken or
// RequireRefreshToken. The boolean is false when no gate has run.
func CurrentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(userContextKey).(model.User)
    return u, ok
}

// RequireAccessToken returns middleware that validates a Bearer
// access token and attaches the resolved user to the request context.
// Each failure branch is distinct: missing header, non-Bearer scheme,
// empty token, bad signature/structure, expiry, and a token whose
// user no longer exists. Every token defect maps to 401; a store
// failure while resolving the user is a 500, never a 401. The user is
// never partially attached on failure.
func RequireAccessToken(secret string, users UserStore) echo.MiddlewareFunc {
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

// bearerToken extracts the raw token from the Authorization header.
// It returns a non-empty message describing the defect when the
// header is missing, uses a scheme other than Bearer, or carries no
// token after the scheme.
func bearerToken(c echo.Context) (raw, errMsg string) {
    auth := c.Request().Header.Get("Authorization")
    if auth == "" {
        return "", "authentication required"
    }
    scheme, token, found := strings.Cut(auth, " ")
    if !found || scheme != "Bearer" {
        return "", "unsupported authentication scheme"
    }
    token = strings.TrimSpace(token)
    if token == "" {
        return "", "authentication required"
    }
    return token, ""
}

func verifyMessage(err error) string {
    if errors.Is(err, utils.ErrTokenExpired) {
        return "token has expired"
    }
    return "token is not valid"
}

// attachUser stores the user on the context with the password hash
// stripped, so no downstream handler can leak it.
func attachUser(c echo.Context, u model.User) {
    u.PasswordHash = ""
    c.Set(userContextKey, u)
}

func unauthorized(c echo.Context, message string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{
        "status":  http.StatusUnauthorized,
        "message": message,
    })
}

func internalError(c echo.Context) error {
    return c.JSON(http.StatusInternalServerError, echo.Map{
        "status":  http.StatusInternalServerError,
        "message": "internal server error",
    })
}
