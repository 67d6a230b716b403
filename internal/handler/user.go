package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/minjae-dev/resume-hub/internal/middleware"
)

// Me returns the authenticated user attached by the access gate.
func Me(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }
    return respond(c, http.StatusOK, msgMeSucceed, toUserPart(u))
}
