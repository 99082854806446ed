package store

import (
	"context"
	"fmt"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

const communityColumns = `id, name, description, is_closed, subscribers_count, created_at`

func (q *Queries) InsertCommunity(ctx context.Context, c *model.Community) error {
	_, err := q.exec(ctx, `
INSERT INTO communities (`+communityColumns+`)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.IsClosed, c.SubscribersCount, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

func (q *Queries) FindCommunity(ctx context.Context, id string) (*model.Community, error) {
	var c model.Community
	ok, err := q.find(ctx, &c, `SELECT `+communityColumns+` FROM communities WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (q *Queries) ListCommunities(ctx context.Context) ([]model.Community, error) {
	var out []model.Community
	if err := q.selectIn(ctx, &out, `SELECT `+communityColumns+` FROM communities ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	return out, nil
}

// AdjustSubscribers moves the denormalised subscriber counter by delta.
func (q *Queries) AdjustSubscribers(ctx context.Context, communityID string, delta int) error {
	_, err := q.exec(ctx, `UPDATE communities SET subscribers_count = subscribers_count + ? WHERE id = ?`, delta, communityID)
	if err != nil {
		return fmt.Errorf("adjust subscribers: %w", err)
	}
	return nil
}

func (q *Queries) FindMembership(ctx context.Context, communityID, userID string) (*model.Membership, error) {
	var m model.Membership
	ok, err := q.find(ctx, &m, `
SELECT community_id, user_id, is_administrator
  FROM community_users
 WHERE community_id = ? AND user_id = ?`, communityID, userID)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// InsertMembership fails with ErrDuplicate when the (community, user) pair already exists.
func (q *Queries) InsertMembership(ctx context.Context, m model.Membership) error {
	_, err := q.exec(ctx, `
INSERT INTO community_users (community_id, user_id, is_administrator)
VALUES (?, ?, ?)`, m.CommunityID, m.UserID, m.IsAdministrator)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// DeleteMembership reports whether a row was removed.
func (q *Queries) DeleteMembership(ctx context.Context, communityID, userID string) (bool, error) {
	n, err := q.exec(ctx, `DELETE FROM community_users WHERE community_id = ? AND user_id = ?`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("delete membership: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) CountMemberships(ctx context.Context, communityID string) (int, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM community_users WHERE community_id = ?`, communityID); err != nil {
		return 0, fmt.Errorf("count memberships: %w", err)
	}
	return n, nil
}

func (q *Queries) ListMembershipsOfUser(ctx context.Context, userID string) ([]model.Membership, error) {
	var out []model.Membership
	err := q.selectIn(ctx, &out, `
SELECT cu.community_id, cu.user_id, cu.is_administrator
  FROM community_users cu
  JOIN communities c ON c.id = cu.community_id
 WHERE cu.user_id = ?
 ORDER BY c.name, c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return out, nil
}

func (q *Queries) ListAdministrators(ctx context.Context, communityID string) ([]model.User, error) {
	var out []model.User
	err := q.selectIn(ctx, &out, `
SELECT u.id, u.full_name, u.email, u.password_hash, u.gender, u.birth_date, u.phone, u.created_at
  FROM community_users cu
  JOIN users u ON u.id = cu.user_id
 WHERE cu.community_id = ? AND cu.is_administrator = TRUE
 ORDER BY u.full_name, u.id`, communityID)
	if err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	return out, nil
}
