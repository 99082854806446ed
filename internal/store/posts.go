package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

const postColumns = `id, title, content, description, reading_time, photo, author_id, community_id, address_id, likes, created_at`

// postViewSelect takes the viewer id as its only placeholder.
const postViewSelect = `
SELECT p.id, p.title, p.content, p.description, p.reading_time, p.photo, p.author_id,
       p.community_id, p.address_id, p.likes, p.created_at,
       COALESCE(u.full_name, '-') AS author,
       c.name AS community_name,
       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id AND cm.deleted_at IS NULL) AS comments_count,
       EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?) AS has_like
  FROM posts p
  LEFT JOIN users u ON u.id = p.author_id
  LEFT JOIN communities c ON c.id = p.community_id`

// PostFilter narrows a post listing. Zero values disable a filter.
type PostFilter struct {
	TagIDs            []string
	Author            string
	MinReadingTime    *int
	MaxReadingTime    *int
	OnlyMyCommunities bool
	CommunityID       string
	Sorting           model.PostSorting
}

// where renders the filter for a viewer. Posts of closed communities are only
// visible to their members.
func (f PostFilter) where(viewerID string) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`
 WHERE (p.community_id IS NULL
        OR p.community_id IN (SELECT id FROM communities WHERE is_closed = FALSE)
        OR p.community_id IN (SELECT community_id FROM community_users WHERE user_id = ?))`)
	args = append(args, viewerID)

	if f.CommunityID != "" {
		sb.WriteString("\n   AND p.community_id = ?")
		args = append(args, f.CommunityID)
	}
	if len(f.TagIDs) > 0 {
		sb.WriteString("\n   AND p.id IN (SELECT pt.post_id FROM post_tags pt WHERE pt.tag_id IN (?))")
		args = append(args, f.TagIDs)
	}
	if f.Author != "" {
		sb.WriteString("\n   AND p.author_id IN (SELECT id FROM users WHERE full_name = ?)")
		args = append(args, f.Author)
	}
	if f.MinReadingTime != nil {
		sb.WriteString("\n   AND p.reading_time >= ?")
		args = append(args, *f.MinReadingTime)
	}
	if f.MaxReadingTime != nil {
		sb.WriteString("\n   AND p.reading_time <= ?")
		args = append(args, *f.MaxReadingTime)
	}
	if f.OnlyMyCommunities {
		sb.WriteString("\n   AND p.community_id IN (SELECT community_id FROM community_users WHERE user_id = ?)")
		args = append(args, viewerID)
	}
	return sb.String(), args
}

func (f PostFilter) orderBy() string {
	switch f.Sorting {
	case model.SortCreateDesc:
		return "\n ORDER BY p.created_at DESC, p.id"
	case model.SortCreateAsc:
		return "\n ORDER BY p.created_at ASC, p.id"
	case model.SortLikeAsc:
		return "\n ORDER BY p.likes ASC, p.id"
	case model.SortLikeDesc:
		return "\n ORDER BY p.likes DESC, p.id"
	default:
		return "\n ORDER BY p.id"
	}
}

// ListPosts returns one page of filtered posts and the filtered row count before slicing.
func (q *Queries) ListPosts(ctx context.Context, f PostFilter, viewerID string, limit, offset int) ([]model.PostView, int, error) {
	where, args := f.where(viewerID)

	var total []int
	if err := q.selectIn(ctx, &total, `SELECT COUNT(*) FROM posts p`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	listArgs := append([]any{viewerID}, args...)
	listArgs = append(listArgs, limit, offset)

	var out []model.PostView
	if err := q.selectIn(ctx, &out, postViewSelect+where+f.orderBy()+"\n LIMIT ? OFFSET ?", listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return out, total[0], nil
}

func (q *Queries) FindPost(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	ok, err := q.find(ctx, &p, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// FindPostView loads a post with its derived fields for viewerID; tags are not loaded.
func (q *Queries) FindPostView(ctx context.Context, id, viewerID string) (*model.PostView, error) {
	var v model.PostView
	ok, err := q.find(ctx, &v, postViewSelect+"\n WHERE p.id = ?", viewerID, id)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (q *Queries) TitleExists(ctx context.Context, title string) (bool, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM posts WHERE title = ?`, title); err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return n > 0, nil
}

// InsertPost stores the post and one post_tags row per tag id.
func (q *Queries) InsertPost(ctx context.Context, p *model.Post, tagIDs []string) error {
	_, err := q.exec(ctx, `
INSERT INTO posts (`+postColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Description, p.ReadingTime, p.Photo, p.AuthorID,
		p.CommunityID, p.AddressID, p.Likes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := q.exec(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`, p.ID, tagID); err != nil {
			return fmt.Errorf("insert post tag %s: %w", tagID, err)
		}
	}
	return nil
}

// AdjustLikes moves the denormalised like counter by delta.
func (q *Queries) AdjustLikes(ctx context.Context, postID string, delta int) error {
	_, err := q.exec(ctx, `UPDATE posts SET likes = likes + ? WHERE id = ?`, delta, postID)
	if err != nil {
		return fmt.Errorf("adjust likes: %w", err)
	}
	return nil
}
