package likes

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
	"github.com/BrawlerYura/BlogAPIBack/internal/store/storetest"
)

func newLedger(t *testing.T) (*Ledger, *store.Store) {
	t.Helper()
	s := storetest.New(t)
	logger, _ := test.NewNullLogger()
	return NewLedger(s, membership.NewResolver(s, logger), logger), s
}

func assertLikeCount(t *testing.T, s *store.Store, postID string, want int) {
	t.Helper()
	ctx := context.Background()
	p, err := s.FindPost(ctx, postID)
	require.NoError(t, err)
	n, err := s.CountLikes(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, n, p.Likes)
	assert.Equal(t, want, p.Likes)
}

func TestAddAndRemoveLike(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()
	a := storetest.User(t, s, "Alice")
	b := storetest.User(t, s, "Bob")
	p := storetest.Post(t, s, a, nil, "P1", 1)

	require.NoError(t, l.Add(ctx, p.ID, b.ID))
	assertLikeCount(t, s, p.ID, 1)

	err := l.Add(ctx, p.ID, b.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assertLikeCount(t, s, p.ID, 1)

	require.NoError(t, l.Remove(ctx, p.ID, b.ID))
	assertLikeCount(t, s, p.ID, 0)

	err = l.Remove(ctx, p.ID, b.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assertLikeCount(t, s, p.ID, 0)
}

func TestLikeMissingPost(t *testing.T) {
	l, s := newLedger(t)
	u := storetest.User(t, s, "Alice")

	err := l.Add(context.Background(), "missing", u.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = l.Remove(context.Background(), "missing", u.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLikeClosedCommunityPostRequiresMembership(t *testing.T) {
	l, s := newLedger(t)
	admin := storetest.User(t, s, "Admin")
	stranger := storetest.User(t, s, "Stranger")
	c := storetest.Community(t, s, "Secret", true, admin)
	p := storetest.Post(t, s, admin, c, "hidden", 1)

	err := l.Add(context.Background(), p.ID, stranger.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.NoError(t, l.Add(context.Background(), p.ID, admin.ID))
	assertLikeCount(t, s, p.ID, 1)
}

func TestConcurrentAddLikeSucceedsOnce(t *testing.T) {
	l, s := newLedger(t)
	a := storetest.User(t, s, "Alice")
	b := storetest.User(t, s, "Bob")
	p := storetest.Post(t, s, a, nil, "P1", 1)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Add(context.Background(), p.ID, b.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)
	assertLikeCount(t, s, p.ID, 1)
}
