package comments

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
	"github.com/BrawlerYura/BlogAPIBack/internal/store/storetest"
)

func newTree(t *testing.T) (*Tree, *store.Store) {
	t.Helper()
	s := storetest.New(t)
	logger, _ := test.NewNullLogger()
	return NewTree(s, membership.NewResolver(s, logger), logger), s
}

func TestEditRules(t *testing.T) {
	tree, s := newTree(t)
	ctx := context.Background()
	a := storetest.User(t, s, "Alice")
	b := storetest.User(t, s, "Bob")
	p := storetest.Post(t, s, a, nil, "P1", 1)

	id, err := tree.Add(ctx, p.ID, "hi", nil, a.ID)
	require.NoError(t, err)

	err = tree.Edit(ctx, id, "hacked", b.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = tree.Edit(ctx, id, "hi", a.ID)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	require.NoError(t, tree.Edit(ctx, id, "hello", a.ID))

	c, err := s.FindComment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Content)
	assert.NotNil(t, c.ModifiedAt)

	err = tree.Edit(ctx, "missing", "x", a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddReplies(t *testing.T) {
	tree, s := newTree(t)
	ctx := context.Background()
	a := storetest.User(t, s, "Alice")
	p := storetest.Post(t, s, a, nil, "P1", 1)
	other := storetest.Post(t, s, a, nil, "P2", 1)

	root, err := tree.Add(ctx, p.ID, "root", nil, a.ID)
	require.NoError(t, err)
	child, err := tree.Add(ctx, p.ID, "child", &root, a.ID)
	require.NoError(t, err)
	_, err = tree.Add(ctx, p.ID, "grandchild", &child, a.ID)
	require.NoError(t, err)

	all, err := tree.Subtree(ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "root", all[0].Content)
	assert.Equal(t, 1, all[0].SubComments)
	assert.Equal(t, "Alice", all[0].Author)

	missing := "missing"
	_, err = tree.Add(ctx, p.ID, "orphan", &missing, a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = tree.Add(ctx, other.ID, "cross-post reply", &root, a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = tree.Add(ctx, "missing", "hi", nil, a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = tree.Subtree(ctx, "missing", "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// An earlier revision of the closed-community gate admitted non-members and blocked
// members. Members must be admitted and everyone else rejected.
func TestAddCommentClosedCommunityGateIsNotInverted(t *testing.T) {
	tree, s := newTree(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	member := storetest.User(t, s, "Member")
	stranger := storetest.User(t, s, "Stranger")
	closed := storetest.Community(t, s, "Secret", true, admin)
	require.NoError(t, s.InsertMembership(ctx, model.Membership{CommunityID: closed.ID, UserID: member.ID}))
	p := storetest.Post(t, s, admin, closed, "hidden", 1)

	_, err := tree.Add(ctx, p.ID, "let me in", nil, stranger.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	for _, u := range []*model.User{admin, member} {
		_, err := tree.Add(ctx, p.ID, "hello from "+u.FullName, nil, u.ID)
		assert.NoError(t, err)
	}

	missing := "missing"
	_, err = tree.Add(ctx, p.ID, "reply to nothing", &missing, stranger.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	open := storetest.Community(t, s, "Open", false)
	q := storetest.Post(t, s, admin, open, "open post", 1)
	_, err = tree.Add(ctx, q.ID, "anyone may comment", nil, stranger.ID)
	assert.NoError(t, err)
}

func TestDeleteLeafAndTombstone(t *testing.T) {
	tree, s := newTree(t)
	ctx := context.Background()
	a := storetest.User(t, s, "Alice")
	b := storetest.User(t, s, "Bob")
	p := storetest.Post(t, s, a, nil, "P1", 1)

	root, err := tree.Add(ctx, p.ID, "root", nil, a.ID)
	require.NoError(t, err)
	reply, err := tree.Add(ctx, p.ID, "reply", &root, b.ID)
	require.NoError(t, err)

	err = tree.Delete(ctx, root, b.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, tree.Delete(ctx, root, a.ID))
	c, err := s.FindComment(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Content)
	assert.NotNil(t, c.DeletedAt)

	err = tree.Delete(ctx, root, a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = tree.Edit(ctx, root, "back", a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	view, err := s.FindPostView(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, view.CommentsCount)
	thread, err := tree.Subtree(ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	live := 0
	for _, c := range thread {
		if c.DeletedAt == nil {
			live++
		}
	}
	assert.Equal(t, view.CommentsCount, live)

	// removing the last reply also removes the tombstoned parent
	require.NoError(t, tree.Delete(ctx, reply, b.ID))
	all, err := tree.Subtree(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestContentLengthIsCountedInCharacters(t *testing.T) {
	tree, s := newTree(t)
	ctx := context.Background()
	a := storetest.User(t, s, "Alice")
	p := storetest.Post(t, s, a, nil, "P1", 1)

	id, err := tree.Add(ctx, p.ID, strings.Repeat("ж", 1000), nil, a.ID)
	require.NoError(t, err)

	_, err = tree.Add(ctx, p.ID, strings.Repeat("ж", 1001), nil, a.ID)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	err = tree.Edit(ctx, id, strings.Repeat("x", 1001), a.ID)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = tree.Add(ctx, p.ID, "   ", nil, a.ID)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}
