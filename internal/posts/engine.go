// Package posts builds filtered, sorted and paginated post listings, loads single posts
// with their derived view fields and creates personal and community posts.
package posts

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/address"
	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

// Query holds the optional listing filters. Page is 1-indexed.
type Query struct {
	TagIDs            []string
	Author            string
	MinReadingTime    *int
	MaxReadingTime    *int
	OnlyMyCommunities bool
	Sorting           model.PostSorting
	Page              int
	Size              int
}

// Draft is the author-supplied part of a new post.
type Draft struct {
	Title       string
	Description string
	ReadingTime int
	Image       *string
	AddressID   *string
	TagIDs      []string
}

type Engine struct {
	store     *store.Store
	members   *membership.Resolver
	addresses address.Lookup
	log       logrus.FieldLogger
}

func NewEngine(s *store.Store, members *membership.Resolver, addresses address.Lookup, log logrus.FieldLogger) *Engine {
	return &Engine{store: s, members: members, addresses: addresses, log: log}
}

// List returns one page of the global feed as seen by callerID ("" for anonymous).
// Posts of closed communities are left out unless the caller is a member.
func (e *Engine) List(ctx context.Context, q Query, callerID string) (*model.PostPage, error) {
	return e.list(ctx, q, "", callerID)
}

// ListForCommunity is List scoped to one community.
func (e *Engine) ListForCommunity(ctx context.Context, communityID string, q Query, callerID string) (*model.PostPage, error) {
	c, err := e.members.Community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := e.members.AssertCanView(ctx, c, callerID); err != nil {
		return nil, err
	}
	q.OnlyMyCommunities = false
	return e.list(ctx, q, communityID, callerID)
}

func (e *Engine) list(ctx context.Context, q Query, communityID, callerID string) (*model.PostPage, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	tagIDs := dedupe(q.TagIDs)
	missing, err := e.store.MissingTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest("tag %s not found", missing[0])
	}

	f := store.PostFilter{
		TagIDs:            tagIDs,
		Author:            q.Author,
		MinReadingTime:    q.MinReadingTime,
		MaxReadingTime:    q.MaxReadingTime,
		OnlyMyCommunities: q.OnlyMyCommunities,
		CommunityID:       communityID,
		Sorting:           q.Sorting,
	}
	views, total, err := e.store.ListPosts(ctx, f, callerID, q.Size, (q.Page-1)*q.Size)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.PostView{}
	}
	if err := e.attachTags(ctx, views); err != nil {
		return nil, err
	}

	return &model.PostPage{
		Posts: views,
		Pagination: model.Pagination{
			Size:    len(views),
			Count:   pageCount(total, q.Size),
			Current: q.Page,
		},
	}, nil
}

func validateQuery(q Query) error {
	if !q.Sorting.Valid() {
		return apperr.BadRequest("unknown sorting %q", q.Sorting)
	}
	if q.Page < 1 {
		return apperr.BadRequest("page must be positive")
	}
	if q.Size < 1 {
		return apperr.BadRequest("size must be positive")
	}
	if q.Page-1 > math.MaxInt/q.Size {
		return apperr.BadRequest("page %d is out of range", q.Page)
	}
	if q.MinReadingTime != nil && q.MaxReadingTime != nil && *q.MinReadingTime > *q.MaxReadingTime {
		return apperr.BadRequest("min reading time exceeds max reading time")
	}
	return nil
}

func pageCount(total, size int) int {
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

func (e *Engine) attachTags(ctx context.Context, views []model.PostView) error {
	ids := make([]string, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	tags, err := e.store.TagsForPosts(ctx, ids)
	if err != nil {
		return err
	}
	for i := range views {
		views[i].Tags = tags[views[i].ID]
		if views[i].Tags == nil {
			views[i].Tags = []model.Tag{}
		}
	}
	return nil
}

// Get loads a post with tags and comments for callerID.
func (e *Engine) Get(ctx context.Context, postID, callerID string) (*model.PostDetail, error) {
	v, err := e.store.FindPostView(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("post %s not found", postID)
	}
	if err := e.members.AssertCanViewID(ctx, v.CommunityID, callerID); err != nil {
		return nil, err
	}

	views := []model.PostView{*v}
	if err := e.attachTags(ctx, views); err != nil {
		return nil, err
	}
	comments, err := e.store.ListCommentViews(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	return &model.PostDetail{PostView: views[0], Comments: comments}, nil
}

func (e *Engine) CreatePersonal(ctx context.Context, d Draft, authorID string) (string, error) {
	return e.create(ctx, d, authorID, nil)
}

// CreateInCommunity requires the author to be able to view the community.
func (e *Engine) CreateInCommunity(ctx context.Context, communityID string, d Draft, authorID string) (string, error) {
	c, err := e.members.Community(ctx, communityID)
	if err != nil {
		return "", err
	}
	if err := e.members.AssertCanView(ctx, c, authorID); err != nil {
		return "", err
	}
	return e.create(ctx, d, authorID, &c.ID)
}

func (e *Engine) create(ctx context.Context, d Draft, authorID string, communityID *string) (string, error) {
	if err := validateDraft(d); err != nil {
		return "", err
	}
	if err := e.resolveAddress(ctx, d.AddressID); err != nil {
		return "", err
	}

	p := &model.Post{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Content:     d.Description,
		Description: d.Description,
		ReadingTime: d.ReadingTime,
		Photo:       d.Image,
		AuthorID:    authorID,
		CommunityID: communityID,
		AddressID:   d.AddressID,
	}
	tagIDs := dedupe(d.TagIDs)

	err := e.store.InTx(ctx, func(q *store.Queries) error {
		taken, err := q.TitleExists(ctx, d.Title)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("post with title %q already exists", d.Title)
		}
		missing, err := q.MissingTags(ctx, tagIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperr.NotFound("tag %s not found", missing[0])
		}

		p.CreatedAt = time.Now().UTC()
		err = q.InsertPost(ctx, p, tagIDs)
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("post with title %q already exists", d.Title)
		}
		return err
	})
	if err != nil {
		return "", err
	}

	e.log.WithFields(logrus.Fields{"post_id": p.ID, "author_id": authorID}).Info("post created")
	return p.ID, nil
}

func validateDraft(d Draft) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(d.Title)); n < 5 || n > 1000 {
		return apperr.BadRequest("title must be between 5 and 1000 characters")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(d.Description)); n < 5 || n > 5000 {
		return apperr.BadRequest("description must be between 5 and 5000 characters")
	}
	if d.ReadingTime < 0 {
		return apperr.BadRequest("reading time cannot be negative")
	}
	if d.Image != nil && utf8.RuneCountInString(*d.Image) > 1000 {
		return apperr.BadRequest("image URL exceeds the length limit")
	}
	if len(d.TagIDs) == 0 {
		return apperr.BadRequest("at least one tag is required")
	}
	return nil
}

// resolveAddress checks an optional address id against the registry. A registry that
// is not implemented leaves the id unresolved.
func (e *Engine) resolveAddress(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := uuid.Parse(*id); err != nil {
		return apperr.BadRequest("address id %q is not a GUID", *id)
	}
	_, err := e.addresses.Chain(ctx, *id)
	if errors.Is(err, address.ErrNotImplemented) {
		e.log.WithField("address_id", *id).Debug("address registry unavailable, keeping id unresolved")
		return nil
	}
	return err
}

// Tags lists every tag by name.
func (e *Engine) Tags(ctx context.Context) ([]model.Tag, error) {
	return e.store.ListTags(ctx)
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
