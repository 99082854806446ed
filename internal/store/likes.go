package store

import (
	"context"
	"fmt"
)

// InsertLike fails with ErrDuplicate when the user already likes the post.
func (q *Queries) InsertLike(ctx context.Context, userID, postID string) error {
	if _, err := q.exec(ctx, `INSERT INTO likes (user_id, post_id) VALUES (?, ?)`, userID, postID); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// DeleteLike reports whether a like row was removed.
func (q *Queries) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	n, err := q.exec(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) CountLikes(ctx context.Context, postID string) (int, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
