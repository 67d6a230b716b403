package router // route registration for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/minjae-dev/resume-hub/internal/config"
    "github.com/minjae-dev/resume-hub/internal/handler"
    "github.com/minjae-dev/resume-hub/internal/middleware"
    "github.com/minjae-dev/resume-hub/internal/model"
)

// RegisterRoutes registers the routes that require no authentication.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/health-check", handler.Health)
}

// RegisterAuth wires the auth endpoints. Sign-up and log-in are open;
// log-out and re-token sit behind the refresh-token gate because both
// mutate the stored session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config, users middleware.UserStore, tokens middleware.TokenStore) {
    g := e.Group("/auth")
    g.POST("/sign-up", a.SignUp)
    g.POST("/log-in", a.LogIn)

    refresh := middleware.RequireRefreshToken(cfg.RefreshSecret, tokens, users)
    g.POST("/log-out", a.LogOut, refresh)
    g.POST("/re-token", a.ReToken, refresh)
}

// RegisterUsers wires the user endpoints behind the access gate.
func RegisterUsers(e *echo.Echo, cfg config.Config, users middleware.UserStore) {
    g := e.Group("/users")
    g.Use(middleware.RequireAccessToken(cfg.AccessSecret, users))
    g.GET("/me", handler.Me)
}

// RegisterResumes wires the resume endpoints. Every route requires an
// access token; the status transition and the log listing are
// additionally restricted to recruiters, and the log listing is
// served through the Redis response cache. The cache sits after both
// gates so only authorized requests can be answered from it.
func RegisterResumes(e *echo.Echo, r *handler.ResumeHandler, cfg config.Config, users middleware.UserStore, cacheCfg config.CacheConfig, rdb *redis.Client) {
    g := e.Group("/resumes")
    g.Use(middleware.RequireAccessToken(cfg.AccessSecret, users))

    g.POST("", r.Create)
    g.GET("", r.List)
    g.GET("/:resumeId", r.Detail)
    g.PATCH("/:resumeId", r.Update)
    g.DELETE("/:resumeId", r.Delete)

    recruiter := middleware.RequireRoles(model.RoleRecruiter)
    g.PATCH("/:resumeId/status", r.UpdateStatus, recruiter)
    g.GET("/:resumeId/logs", r.Logs, recruiter, middleware.ResponseCache(cacheCfg, rdb))
}
