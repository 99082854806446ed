package store

import (
	"context"
	"fmt"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

func (q *Queries) InsertTag(ctx context.Context, t *model.Tag) error {
	_, err := q.exec(ctx, `INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`, t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (q *Queries) ListTags(ctx context.Context) ([]model.Tag, error) {
	var out []model.Tag
	if err := q.selectIn(ctx, &out, `SELECT id, name, created_at FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// MissingTags returns the ids from ids that have no tag row, in input order.
func (q *Queries) MissingTags(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := q.selectIn(ctx, &found, `SELECT id FROM tags WHERE id IN (?)`, ids); err != nil {
		return nil, fmt.Errorf("lookup tags: %w", err)
	}
	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// TagsForPosts groups the tags of every listed post by post id.
func (q *Queries) TagsForPosts(ctx context.Context, postIDs []string) (map[string][]model.Tag, error) {
	out := make(map[string][]model.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID string `db:"post_id"`
		model.Tag
	}
	err := q.selectIn(ctx, &rows, `
SELECT pt.post_id, t.id, t.name, t.created_at
  FROM post_tags pt
  JOIN tags t ON t.id = pt.tag_id
 WHERE pt.post_id IN (?)
 ORDER BY t.name`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("tags for posts: %w", err)
	}
	for _, r := range rows {
		out[r.PostID] = append(out[r.PostID], r.Tag)
	}
	return out, nil
}
