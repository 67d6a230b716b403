package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "net/mail"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/minjae-dev/resume-hub/internal/config"
    "github.com/minjae-dev/resume-hub/internal/middleware"
    "github.com/minjae-dev/resume-hub/internal/model"
    "github.com/minjae-dev/resume-hub/internal/repository"
    "github.com/minjae-dev/resume-hub/internal/utils"
)

// UserStore is the user persistence surface the auth handlers need.
// *repository.UserRepo satisfies it; tests substitute fakes.
type UserStore interface {
    Create(ctx context.Context, email, passwordHash, name, role string) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the refresh-token persistence surface the auth
// handlers need. *repository.TokenRepo satisfies it.
type TokenStore interface {
    Upsert(ctx context.Context, userID uint64, tokenHash string) error
    DeleteByUserID(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type signUpReq struct {
    Email           string `json:"email"`
    Password        string `json:"password"`
    PasswordConfirm string `json:"passwordConfirm"`
    Name            string `json:"name"`
}
type logInReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type userPart struct {
    UserID    uint64    `json:"userId"`
    Email     string    `json:"email"`
    Name      string    `json:"name"`
    Role      string    `json:"role"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

func toUserPart(u model.User) userPart {
    return userPart{
        UserID:    u.ID,
        Email:     u.Email,
        Name:      u.Name,
        Role:      u.Role,
        CreatedAt: u.CreatedAt,
        UpdatedAt: u.UpdatedAt,
    }
}

type tokenPair struct {
    AccessToken  string `json:"accessToken"`
    RefreshToken string `json:"refreshToken"`
}

// SignUp creates an APPLICANT user. The created representation never
// includes the password hash.
func (h *AuthHandler) SignUp(c echo.Context) error {
    var req signUpReq
    if err := c.Bind(&req); err != nil {
        return respondErr(c, http.StatusBadRequest, msgInvalidBody)
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if msg := validateSignUp(req); msg != "" {
        return respondErr(c, http.StatusBadRequest, msg)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    uid, err := h.Users.Create(ctx, req.Email, hash, req.Name, model.RoleApplicant)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return respondErr(c, http.StatusConflict, msgEmailDuplicated)
        }
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    return respond(c, http.StatusCreated, msgSignUpSucceed, toUserPart(u))
}

func validateSignUp(req signUpReq) string {
    if req.Email == "" {
        return msgEmailRequired
    }
    if _, err := mail.ParseAddress(req.Email); err != nil {
        return msgEmailInvalid
    }
    if req.Password == "" {
        return msgPasswordRequired
    }
    if len(req.Password) < 6 {
        return msgPasswordTooShort
    }
    if req.PasswordConfirm == "" {
        return msgPasswordConfirmReq
    }
    if req.Password != req.PasswordConfirm {
        return msgPasswordMismatch
    }
    if strings.TrimSpace(req.Name) == "" {
        return msgNameRequired
    }
    return ""
}

// LogIn verifies credentials and returns a fresh token pair. Issuing
// the pair replaces the stored refresh hash, so any session the user
// had elsewhere is cut off.
func (h *AuthHandler) LogIn(c echo.Context) error {
    var req logInReq
    if err := c.Bind(&req); err != nil {
        return respondErr(c, http.StatusBadRequest, msgInvalidBody)
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" {
        return respondErr(c, http.StatusBadRequest, msgEmailRequired)
    }
    if req.Password == "" {
        return respondErr(c, http.StatusBadRequest, msgPasswordRequired)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
        }
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }

    pair, err := h.issueTokenPair(ctx, u.ID)
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    return respond(c, http.StatusOK, msgLogInSucceed, pair)
}

// LogOut deletes the caller's stored refresh token. Runs behind the
// refresh-token gate, so the presented token is known to be the
// currently registered one.
func (h *AuthHandler) LogOut(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.DeleteByUserID(ctx, u.ID); err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    return respond(c, http.StatusOK, msgLogOutSucceed, echo.Map{"userId": u.ID})
}

// ReToken reissues a token pair for the caller. It reuses the same
// issuance path as login, so the stored refresh hash is replaced and
// the token used to reach this endpoint becomes unusable.
func (h *AuthHandler) ReToken(c echo.Context) error {
    u, ok := middleware.CurrentUser(c)
    if !ok {
        return respondErr(c, http.StatusUnauthorized, msgInvalidCredentials)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    pair, err := h.issueTokenPair(ctx, u.ID)
    if err != nil {
        return respondErr(c, http.StatusInternalServerError, msgInternalError)
    }
    return respond(c, http.StatusOK, msgReTokenSucceed, pair)
}

// issueTokenPair signs a new access and refresh token for the user
// and upserts the refresh token's hash into the store. The upsert is
// the rotation: at most one refresh token per user is ever live, and
// every earlier one fails as discarded from this moment on.
func (h *AuthHandler) issueTokenPair(ctx context.Context, userID uint64) (tokenPair, error) {
    access, err := utils.NewAccessToken(h.Cfg.AccessSecret, userID, h.Cfg.AccessTTLMin)
    if err != nil {
        return tokenPair{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, userID, h.Cfg.RefreshTTLDays)
    if err != nil {
        return tokenPair{}, err
    }
    if err := h.Tokens.Upsert(ctx, userID, utils.HashRefreshRaw(refresh.Token)); err != nil {
        return tokenPair{}, err
    }
    return tokenPair{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}
