package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TokenRepo persists refresh token hashes, one row per user. Rotation
// is an upsert: replacing the stored hash is what invalidates every
// previously issued refresh token for that user. There is no deny
// list; latest-wins is the sole revocation mechanism.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Upsert stores the hash of a freshly issued refresh token,
// replacing any existing row for the user. The single statement is
// atomic per user row, so two concurrent logins cannot interleave
// partial writes; one of the two hashes wins outright.
func (r *TokenRepo) Upsert(ctx context.Context, userID uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash) VALUES (?,?) "+
			"ON DUPLICATE KEY UPDATE token_hash=VALUES(token_hash), updated_at=NOW()",
		userID, tokenHash)
	return err
}

// GetHashByUserID returns the currently stored refresh token hash for
// a user, or ErrTokenNotFound when the user has no active session.
func (r *TokenRepo) GetHashByUserID(ctx context.Context, userID uint64) (string, error) {
	var hash string
	err := r.DB.QueryRowContext(ctx,
		"SELECT token_hash FROM refresh_tokens WHERE user_id=? LIMIT 1",
		userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// DeleteByUserID removes the user's refresh token row on logout.
// Deleting a row that does not exist is not an error.
func (r *TokenRepo) DeleteByUserID(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}
