package store

import (
	"context"
	"fmt"
	"time"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

// InsertRevokedToken fails with ErrDuplicate when the token is already revoked.
func (q *Queries) InsertRevokedToken(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := q.exec(ctx, `INSERT INTO revoked_tokens (token, expires_at) VALUES (?, ?)`, token, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (q *Queries) FindRevokedToken(ctx context.Context, token string) (*model.RevokedToken, error) {
	var t model.RevokedToken
	ok, err := q.find(ctx, &t, `SELECT token, expires_at FROM revoked_tokens WHERE token = ?`, token)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

// DeleteExpiredTokens removes revoked tokens whose expiry is before now.
func (q *Queries) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	n, err := q.exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep revoked tokens: %w", err)
	}
	return n, nil
}
