package model

import "time"

// Role names stored in the `users.role` column.  APPLICANT is the
// default role assigned on sign-up; RECRUITER is the privileged role
// allowed to move resumes through the review pipeline.
const (
    RoleApplicant = "APPLICANT"
    RoleRecruiter = "RECRUITER"
)

// ValidRole reports whether the given string is a known role name.
func ValidRole(role string) bool {
    return role == RoleApplicant || role == RoleRecruiter
}

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags and
// never serialize the password hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name supplied on sign-up.
//  Role         – role name (APPLICANT or RECRUITER).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Name         string    // users.name
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models the single row a user may hold in the
// `refresh_tokens` table.  The table is unique on user_id: issuing a
// new refresh token replaces the stored hash, which is what revokes
// every previously issued refresh token for that user.  The plain
// token is never stored, only its SHA-256 hash.
//
// Fields:
//  UserID    – owner of the token (unique).
//  TokenHash – SHA-256 hex digest of the token value.
//  CreatedAt – timestamp of first issuance.
//  UpdatedAt – timestamp of the latest rotation.
type RefreshToken struct {
    UserID    uint64    // refresh_tokens.user_id
    TokenHash string    // refresh_tokens.token_hash
    CreatedAt time.Time // refresh_tokens.created_at
    UpdatedAt time.Time // refresh_tokens.updated_at
}
