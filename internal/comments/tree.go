// Package comments stores threaded comments flat, with parent links, and enforces
// author-only edit and delete.
package comments

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

const maxContentLength = 1000

type Tree struct {
	store   *store.Store
	members *membership.Resolver
	log     logrus.FieldLogger
}

func NewTree(s *store.Store, members *membership.Resolver, log logrus.FieldLogger) *Tree {
	return &Tree{store: s, members: members, log: log}
}

func (t *Tree) visiblePost(ctx context.Context, postID, callerID string) (*model.Post, error) {
	p, err := t.store.FindPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("post %s not found", postID)
	}
	if err := t.members.AssertCanViewID(ctx, p.CommunityID, callerID); err != nil {
		return nil, err
	}
	return p, nil
}

// Subtree returns every comment of the post at any depth, oldest first.
func (t *Tree) Subtree(ctx context.Context, postID, callerID string) ([]model.CommentView, error) {
	if _, err := t.visiblePost(ctx, postID, callerID); err != nil {
		return nil, err
	}
	out, err := t.store.ListCommentViews(ctx, postID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.CommentView{}
	}
	return out, nil
}

// Add posts a comment, or a reply when parentID is set. Members only for closed communities.
func (t *Tree) Add(ctx context.Context, postID, content string, parentID *string, authorID string) (string, error) {
	if err := validateContent(content); err != nil {
		return "", err
	}

	c := &model.Comment{
		ID:       uuid.NewString(),
		Content:  content,
		ParentID: parentID,
		PostID:   postID,
		AuthorID: authorID,
	}
	err := t.store.InTx(ctx, func(q *store.Queries) error {
		p, err := q.FindPost(ctx, postID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("post %s not found", postID)
		}
		if parentID != nil {
			parent, err := q.FindComment(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil || parent.PostID != postID || parent.DeletedAt != nil {
				return apperr.NotFound("comment %s not found", *parentID)
			}
		}
		if err := membership.AssertCanViewIn(ctx, q, p.CommunityID, authorID); err != nil {
			return err
		}
		c.CreatedAt = time.Now().UTC()
		return q.InsertComment(ctx, c)
	})
	if err != nil {
		return "", err
	}
	t.log.WithFields(logrus.Fields{"comment_id": c.ID, "post_id": postID}).Debug("comment added")
	return c.ID, nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.BadRequest("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return apperr.BadRequest("comment content exceeds %d characters", maxContentLength)
	}
	return nil
}

// ownComment loads a live comment written by callerID.
func ownComment(ctx context.Context, q *store.Queries, commentID, callerID string) (*model.Comment, error) {
	c, err := q.FindComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.DeletedAt != nil {
		return nil, apperr.NotFound("comment %s not found", commentID)
	}
	if c.AuthorID != callerID {
		return nil, apperr.Forbidden("comment %s belongs to another user", commentID)
	}
	return c, nil
}

func (t *Tree) Edit(ctx context.Context, commentID, content, callerID string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	return t.store.InTx(ctx, func(q *store.Queries) error {
		c, err := ownComment(ctx, q, commentID, callerID)
		if err != nil {
			return err
		}
		if c.Content == content {
			return apperr.BadRequest("comment content is unchanged")
		}
		return q.UpdateCommentContent(ctx, commentID, content, time.Now().UTC())
	})
}

// Delete removes a comment. A comment with replies is cleared and kept as a tombstone;
// tombstoned ancestors left without replies are removed with it.
func (t *Tree) Delete(ctx context.Context, commentID, callerID string) error {
	return t.store.InTx(ctx, func(q *store.Queries) error {
		c, err := ownComment(ctx, q, commentID, callerID)
		if err != nil {
			return err
		}
		replies, err := q.CountReplies(ctx, c.ID)
		if err != nil {
			return err
		}
		if replies > 0 {
			return q.TombstoneComment(ctx, c.ID, time.Now().UTC())
		}
		if err := q.DeleteComment(ctx, c.ID); err != nil {
			return err
		}
		return pruneTombstones(ctx, q, c.ParentID)
	})
}

func pruneTombstones(ctx context.Context, q *store.Queries, id *string) error {
	for id != nil {
		c, err := q.FindComment(ctx, *id)
		if err != nil || c == nil || c.DeletedAt == nil {
			return err
		}
		replies, err := q.CountReplies(ctx, c.ID)
		if err != nil || replies > 0 {
			return err
		}
		if err := q.DeleteComment(ctx, c.ID); err != nil {
			return err
		}
		id = c.ParentID
	}
	return nil
}
