// Package membership resolves a user's role in a community, gates closed communities
// and handles subscribe/unsubscribe with the subscriber counter.
package membership

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

type Resolver struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewResolver(s *store.Store, log logrus.FieldLogger) *Resolver {
	return &Resolver{store: s, log: log}
}

// Community loads a community or fails with NotFound.
func (r *Resolver) Community(ctx context.Context, communityID string) (*model.Community, error) {
	return findCommunity(ctx, r.store.Queries, communityID)
}

func findCommunity(ctx context.Context, q *store.Queries, communityID string) (*model.Community, error) {
	c, err := q.FindCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("community %s not found", communityID)
	}
	return c, nil
}

func (r *Resolver) RoleOf(ctx context.Context, communityID, userID string) (model.Role, error) {
	if _, err := r.Community(ctx, communityID); err != nil {
		return model.RoleNone, err
	}
	if userID == "" {
		return model.RoleNone, nil
	}
	m, err := r.store.FindMembership(ctx, communityID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	return model.RoleOfMembership(m), nil
}

// CanView is true for open communities and for members of closed ones.
func (r *Resolver) CanView(ctx context.Context, c *model.Community, userID string) (bool, error) {
	return canView(ctx, r.store.Queries, c, userID)
}

func canView(ctx context.Context, q *store.Queries, c *model.Community, userID string) (bool, error) {
	if !c.IsClosed {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}
	m, err := q.FindMembership(ctx, c.ID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (r *Resolver) AssertCanView(ctx context.Context, c *model.Community, userID string) error {
	return assertCanView(ctx, r.store.Queries, c, userID)
}

func assertCanView(ctx context.Context, q *store.Queries, c *model.Community, userID string) error {
	ok, err := canView(ctx, q, c, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("community %s is closed", c.ID)
	}
	return nil
}

// AssertCanViewID is AssertCanView for an optional community id; a nil id is a
// personal post and always visible.
func (r *Resolver) AssertCanViewID(ctx context.Context, communityID *string, userID string) error {
	return AssertCanViewIn(ctx, r.store.Queries, communityID, userID)
}

// AssertCanViewIn is AssertCanViewID run on q, for callers already inside a transaction.
func AssertCanViewIn(ctx context.Context, q *store.Queries, communityID *string, userID string) error {
	if communityID == nil {
		return nil
	}
	c, err := findCommunity(ctx, q, *communityID)
	if err != nil {
		return err
	}
	return assertCanView(ctx, q, c, userID)
}

func (r *Resolver) Subscribe(ctx context.Context, communityID, userID string) error {
	err := r.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := findCommunity(ctx, q, communityID); err != nil {
			return err
		}
		m, err := q.FindMembership(ctx, communityID, userID)
		if err != nil {
			return err
		}
		if m != nil {
			return apperr.Conflict("already subscribed to community %s", communityID)
		}
		err = q.InsertMembership(ctx, model.Membership{CommunityID: communityID, UserID: userID})
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("already subscribed to community %s", communityID)
		}
		if err != nil {
			return err
		}
		return q.AdjustSubscribers(ctx, communityID, 1)
	})
	if err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"community_id": communityID, "user_id": userID}).Info("subscribed")
	return nil
}

func (r *Resolver) Unsubscribe(ctx context.Context, communityID, userID string) error {
	err := r.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := findCommunity(ctx, q, communityID); err != nil {
			return err
		}
		removed, err := q.DeleteMembership(ctx, communityID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.Conflict("not subscribed to community %s", communityID)
		}
		return q.AdjustSubscribers(ctx, communityID, -1)
	})
	if err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"community_id": communityID, "user_id": userID}).Info("unsubscribed")
	return nil
}

func (r *Resolver) Communities(ctx context.Context) ([]model.Community, error) {
	return r.store.ListCommunities(ctx)
}

// MyCommunities lists the caller's memberships with their role names.
func (r *Resolver) MyCommunities(ctx context.Context, userID string) ([]model.CommunityMembership, error) {
	rows, err := r.store.ListMembershipsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CommunityMembership, 0, len(rows))
	for i := range rows {
		out = append(out, model.CommunityMembership{
			UserID:      rows[i].UserID,
			CommunityID: rows[i].CommunityID,
			Role:        model.RoleOfMembership(&rows[i]).String(),
		})
	}
	return out, nil
}

// Detail is the community with its administrators.
func (r *Resolver) Detail(ctx context.Context, communityID string) (*model.CommunityDetail, error) {
	c, err := r.Community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	admins, err := r.store.ListAdministrators(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []model.User{}
	}
	return &model.CommunityDetail{Community: *c, Administrators: admins}, nil
}
