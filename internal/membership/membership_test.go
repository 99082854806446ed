package membership

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
	"github.com/BrawlerYura/BlogAPIBack/internal/store/storetest"
)

func newResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	s := storetest.New(t)
	logger, _ := test.NewNullLogger()
	return NewResolver(s, logger), s
}

func assertSubscriberCount(t *testing.T, s *store.Store, communityID string) {
	t.Helper()
	ctx := context.Background()
	c, err := s.FindCommunity(ctx, communityID)
	require.NoError(t, err)
	n, err := s.CountMemberships(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, n, c.SubscribersCount)
}

func TestRoleOf(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	reader := storetest.User(t, s, "Reader")
	stranger := storetest.User(t, s, "Stranger")
	c := storetest.Community(t, s, "Go", false, admin)
	require.NoError(t, r.Subscribe(ctx, c.ID, reader.ID))

	for user, want := range map[string]model.Role{
		admin.ID:    model.RoleAdministrator,
		reader.ID:   model.RoleSubscriber,
		stranger.ID: model.RoleNone,
		"":          model.RoleNone,
	} {
		got, err := r.RoleOf(ctx, c.ID, user)
		require.NoError(t, err)
		assert.Equal(t, want, got, user)
	}

	_, err := r.RoleOf(ctx, "missing", admin.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubscribeKeepsCounterInSync(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	u := storetest.User(t, s, "Reader")
	c := storetest.Community(t, s, "Go", false, admin)
	assertSubscriberCount(t, s, c.ID)

	require.NoError(t, r.Subscribe(ctx, c.ID, u.ID))
	assertSubscriberCount(t, s, c.ID)

	err := r.Subscribe(ctx, c.ID, u.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assertSubscriberCount(t, s, c.ID)

	require.NoError(t, r.Unsubscribe(ctx, c.ID, u.ID))
	assertSubscriberCount(t, s, c.ID)

	err = r.Unsubscribe(ctx, c.ID, u.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assertSubscriberCount(t, s, c.ID)

	got, err := s.FindCommunity(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SubscribersCount)
}

func TestConcurrentSubscribeKeepsCounterInSync(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	c := storetest.Community(t, s, "Go", false, admin)
	u := storetest.User(t, s, "Reader")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Subscribe(ctx, c.ID, u.ID)
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
	assertSubscriberCount(t, s, c.ID)

	readers := make([]*model.User, attempts)
	for i := range readers {
		readers[i] = storetest.User(t, s, "Reader")
	}
	for _, step := range []func(string) error{
		func(id string) error { return r.Subscribe(ctx, c.ID, id) },
		func(id string) error { return r.Unsubscribe(ctx, c.ID, id) },
	} {
		for _, reader := range readers {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				assert.NoError(t, step(id))
			}(reader.ID)
		}
		wg.Wait()
		assertSubscriberCount(t, s, c.ID)
	}

	got, err := s.FindCommunity(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SubscribersCount)
}

func TestSubscribeUnknownCommunity(t *testing.T) {
	r, s := newResolver(t)
	u := storetest.User(t, s, "Reader")

	err := r.Subscribe(context.Background(), "missing", u.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = r.Unsubscribe(context.Background(), "missing", u.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCanView(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	member := storetest.User(t, s, "Member")
	stranger := storetest.User(t, s, "Stranger")
	open := storetest.Community(t, s, "Open", false)
	closed := storetest.Community(t, s, "Closed", true, admin)
	require.NoError(t, r.Subscribe(ctx, closed.ID, member.ID))

	ok, err := r.CanView(ctx, open, "")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, u := range []*model.User{admin, member} {
		assert.NoError(t, r.AssertCanView(ctx, closed, u.ID))
	}
	err = r.AssertCanView(ctx, closed, stranger.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	err = r.AssertCanView(ctx, closed, "")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	assert.NoError(t, r.AssertCanViewID(ctx, nil, stranger.ID))
	err = r.AssertCanViewID(ctx, &closed.ID, stranger.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestDirectory(t *testing.T) {
	r, s := newResolver(t)
	ctx := context.Background()
	admin := storetest.User(t, s, "Admin")
	reader := storetest.User(t, s, "Reader")
	beta := storetest.Community(t, s, "Beta", true, admin)
	alpha := storetest.Community(t, s, "Alpha", false)
	require.NoError(t, r.Subscribe(ctx, alpha.ID, admin.ID))

	all, err := r.Communities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)

	mine, err := r.MyCommunities(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.CommunityMembership{
		{UserID: admin.ID, CommunityID: alpha.ID, Role: "Subscriber"},
		{UserID: admin.ID, CommunityID: beta.ID, Role: "Administrator"},
	}, mine)

	none, err := r.MyCommunities(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	d, err := r.Detail(ctx, beta.ID)
	require.NoError(t, err)
	require.Len(t, d.Administrators, 1)
	assert.Equal(t, admin.ID, d.Administrators[0].ID)
	assert.True(t, d.IsClosed)

	_, err = r.Detail(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
