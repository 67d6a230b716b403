package handler

import "github.com/labstack/echo/v4"

// envelope is the response shape every endpoint returns:
// {status, message, data}. Data is omitted on failures.
type envelope struct {
    Status  int         `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
    return c.JSON(status, envelope{Status: status, Message: message, Data: data})
}

func respondErr(c echo.Context, status int, message string) error {
    return c.JSON(status, envelope{Status: status, Message: message})
}

// User-facing response messages. Kept in one place so handlers and
// tests agree on exact wording.
const (
    msgSignUpSucceed  = "successfully signed up"
    msgLogInSucceed   = "successfully logged in"
    msgLogOutSucceed  = "successfully logged out"
    msgReTokenSucceed = "tokens have been reissued"
    msgMeSucceed      = "fetched current user"

    msgEmailRequired      = "email is required"
    msgEmailInvalid       = "email format is not valid"
    msgEmailDuplicated    = "this email is already registered"
    msgPasswordRequired   = "password is required"
    msgPasswordTooShort   = "password must be at least 6 characters"
    msgPasswordConfirmReq = "password confirmation is required"
    msgPasswordMismatch   = "the two passwords do not match"
    msgNameRequired       = "name is required"
    msgInvalidCredentials = "authentication information is not valid"

    msgResumeCreated     = "resume has been created"
    msgResumeList        = "fetched resume list"
    msgResumeDetail      = "fetched resume"
    msgResumeUpdated     = "resume has been updated"
    msgResumeDeleted     = "resume has been deleted"
    msgResumeNotFound    = "resume not found"
    msgResumeForbidden   = "no permission for this resume"
    msgTitleRequired     = "resume title is required"
    msgContentRequired   = "resume content is required"
    msgContentTooShort   = "resume content must be at least 20 characters"
    msgNothingToUpdate   = "nothing to update"
    msgStatusRequired    = "resume status is required"
    msgStatusInvalid     = "resume status is not valid"
    msgReasonRequired    = "reason is required"
    msgStatusChanged     = "resume status has been changed"
    msgStatusLogList     = "fetched resume status logs"
    msgInvalidResumeID   = "resume id is not valid"
    msgInvalidBody       = "invalid request body"
    msgInternalError     = "internal server error"
)
