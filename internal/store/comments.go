package store

import (
	"context"
	"fmt"
	"time"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

const commentColumns = `id, content, parent_id, post_id, author_id, created_at, modified_at, deleted_at`

func (q *Queries) InsertComment(ctx context.Context, c *model.Comment) error {
	_, err := q.exec(ctx, `
INSERT INTO comments (`+commentColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Content, c.ParentID, c.PostID, c.AuthorID, c.CreatedAt, c.ModifiedAt, c.DeletedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (q *Queries) FindComment(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	ok, err := q.find(ctx, &c, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// ListCommentViews returns every comment of a post, oldest first, with author names
// and the number of direct replies.
func (q *Queries) ListCommentViews(ctx context.Context, postID string) ([]model.CommentView, error) {
	var out []model.CommentView
	err := q.selectIn(ctx, &out, `
SELECT c.id, c.content, c.parent_id, c.post_id, c.author_id, c.created_at, c.modified_at, c.deleted_at,
       COALESCE(u.full_name, '-') AS author,
       (SELECT COUNT(*) FROM comments r WHERE r.parent_id = c.id) AS sub_comments
  FROM comments c
  LEFT JOIN users u ON u.id = c.author_id
 WHERE c.post_id = ?
 ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}

func (q *Queries) CountReplies(ctx context.Context, commentID string) (int, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM comments WHERE parent_id = ?`, commentID); err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return n, nil
}

func (q *Queries) UpdateCommentContent(ctx context.Context, id, content string, at time.Time) error {
	_, err := q.exec(ctx, `UPDATE comments SET content = ?, modified_at = ? WHERE id = ?`, content, at, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (q *Queries) DeleteComment(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// TombstoneComment clears a comment that still has replies instead of removing its row.
func (q *Queries) TombstoneComment(ctx context.Context, id string, at time.Time) error {
	_, err := q.exec(ctx, `UPDATE comments SET content = '', deleted_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("tombstone comment: %w", err)
	}
	return nil
}
