// Package likes records which users like which posts and keeps each post's like
// counter equal to its number of like rows.
package likes

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

type Ledger struct {
	store   *store.Store
	members *membership.Resolver
	log     logrus.FieldLogger
}

func NewLedger(s *store.Store, members *membership.Resolver, log logrus.FieldLogger) *Ledger {
	return &Ledger{store: s, members: members, log: log}
}

// Add likes postID on behalf of userID. A second like from the same user is a Conflict,
// including when two requests race.
func (l *Ledger) Add(ctx context.Context, postID, userID string) error {
	if err := l.assertVisible(ctx, postID, userID); err != nil {
		return err
	}
	err := l.store.InTx(ctx, func(q *store.Queries) error {
		err := q.InsertLike(ctx, userID, postID)
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("post %s is already liked", postID)
		}
		if err != nil {
			return err
		}
		return q.AdjustLikes(ctx, postID, 1)
	})
	if err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).Debug("like added")
	return nil
}

func (l *Ledger) Remove(ctx context.Context, postID, userID string) error {
	if err := l.assertVisible(ctx, postID, userID); err != nil {
		return err
	}
	err := l.store.InTx(ctx, func(q *store.Queries) error {
		removed, err := q.DeleteLike(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.Conflict("post %s is not liked", postID)
		}
		return q.AdjustLikes(ctx, postID, -1)
	})
	if err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID}).Debug("like removed")
	return nil
}

func (l *Ledger) assertVisible(ctx context.Context, postID, userID string) error {
	p, err := l.store.FindPost(ctx, postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("post %s not found", postID)
	}
	return l.members.AssertCanViewID(ctx, p.CommunityID, userID)
}
