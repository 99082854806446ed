// Package storetest opens a throwaway sqlite store and seeds fixtures for package tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

// New opens a migrated sqlite database inside t.TempDir.
func New(t *testing.T) *store.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "blog.db") + "?_foreign_keys=on&_busy_timeout=5000"
	s, err := store.Open(context.Background(), "sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func User(t *testing.T, s *store.Store, fullName string) *model.User {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Gender:       model.GenderFemale,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.InsertUser(context.Background(), u))
	return u
}

func Tag(t *testing.T, s *store.Store, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.InsertTag(context.Background(), tag))
	return tag
}

// Community creates a community; admins become administrator members and are counted
// as subscribers.
func Community(t *testing.T, s *store.Store, name string, closed bool, admins ...*model.User) *model.Community {
	t.Helper()
	ctx := context.Background()
	c := &model.Community{ID: uuid.NewString(), Name: name, IsClosed: closed, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.InsertCommunity(ctx, c))
	for _, a := range admins {
		require.NoError(t, s.InsertMembership(ctx, model.Membership{CommunityID: c.ID, UserID: a.ID, IsAdministrator: true}))
		require.NoError(t, s.AdjustSubscribers(ctx, c.ID, 1))
		c.SubscribersCount++
	}
	return c
}

// Post inserts a post directly, bypassing the post engine's checks.
func Post(t *testing.T, s *store.Store, author *model.User, community *model.Community, title string, readingTime int, tags ...*model.Tag) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Content:     title + " content",
		Description: title + " content",
		ReadingTime: readingTime,
		AuthorID:    author.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if community != nil {
		p.CommunityID = &community.ID
	}
	var tagIDs []string
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	require.NoError(t, s.InsertPost(context.Background(), p, tagIDs))
	return p
}
