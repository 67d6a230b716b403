package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRoles returns middleware enforcing that the authenticated
// user's role is one of the given names. It is a pure predicate over
// the user already attached by an access-token gate: no store access,
// no side effects. It must therefore always be registered after
// RequireAccessToken in the chain; a request arriving without an
// attached user is rejected the same as a wrong role.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u, ok := CurrentUser(c)
            if !ok || !allowed[u.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "status":  http.StatusForbidden,
                    "message": "access denied",
                })
            }
            return next(c)
        }
    }
}
