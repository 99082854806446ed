package identity

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
	"github.com/BrawlerYura/BlogAPIBack/internal/store/storetest"
)

const testSecret = "test-secret"

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s := storetest.New(t)
	logger, _ := test.NewNullLogger()
	tokens := NewTokens(testSecret, "blog-api", "blog-client", time.Hour)
	return NewService(s, tokens, bcrypt.MinCost, logger), s
}

func registration(email string) Registration {
	return Registration{
		FullName: "Alice Doe",
		Email:    email,
		Password: "secret1",
		Gender:   model.GenderFemale,
	}
}

func TestRegisterIssuesTokenForNewUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)

	userID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	u, err := svc.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "Alice Doe", u.FullName)
	assert.NotEqual(t, "secret1", u.PasswordHash)
}

func TestRegisterTwiceWithSameEmailIgnoresCase(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("  A@X.com "))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)
	future := time.Now().Add(48 * time.Hour)

	badGender := registration("g@x.com")
	badGender.Gender = "Other"
	unborn := registration("f@x.com")
	unborn.BirthDate = &future
	shortPassword := registration("p@x.com")
	shortPassword.Password = "abc"

	for name, r := range map[string]Registration{
		"gender":     badGender,
		"birth date": unborn,
		"password":   shortPassword,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), r)
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		})
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindBadRequest, Message: "wrong email"})

	_, err = svc.Login(ctx, "a@x.com", "secret2")
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindBadRequest, Message: "wrong password"})

	_, err = svc.Login(ctx, "A@x.com", "secret1")
	assert.NoError(t, err)
}

func TestLogoutTwiceIsUnauthorized(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	token, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	revoked, err := svc.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = svc.Logout(ctx, token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Authenticate(ctx, token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestIsRevokedIgnoresExpiredRows(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.InsertRevokedToken(ctx, "stale", time.Now().Add(-time.Minute).UTC()))

	revoked, err := svc.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for name, tokens := range map[string]*Tokens{
		"secret":   NewTokens("other-secret", "blog-api", "blog-client", time.Hour),
		"issuer":   NewTokens(testSecret, "someone-else", "blog-client", time.Hour),
		"audience": NewTokens(testSecret, "blog-api", "someone-else", time.Hour),
		"expired":  NewTokens(testSecret, "blog-api", "blog-client", -time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			token, err := tokens.Issue("user-1")
			require.NoError(t, err)
			_, err = svc.Authenticate(ctx, token)
			assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		})
	}

	_, err := svc.Authenticate(ctx, "not-a-jwt")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestEditProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tokenA, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registration("b@x.com"))
	require.NoError(t, err)
	userA, err := svc.Authenticate(ctx, tokenA)
	require.NoError(t, err)

	phone := "+70000000000"
	edit := ProfileEdit{FullName: "Alice Smith", Email: "B@x.com", Gender: model.GenderFemale, Phone: &phone}
	err = svc.EditProfile(ctx, userA, edit)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	edit.Email = "alice@x.com"
	require.NoError(t, svc.EditProfile(ctx, userA, edit))

	u, err := svc.Profile(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", u.FullName)
	assert.Equal(t, "alice@x.com", u.Email)
	require.NotNil(t, u.Phone)
	assert.Equal(t, phone, *u.Phone)

	_, err = svc.Login(ctx, "alice@x.com", "secret1")
	assert.NoError(t, err)
}

func TestProfileOfUnknownUser(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Profile(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAuthorsCountPostsAndLikes(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	bob := storetest.User(t, s, "Bob")
	alice := storetest.User(t, s, "Alice")
	p := storetest.Post(t, s, bob, nil, "first", 3)
	storetest.Post(t, s, bob, nil, "second", 4)
	require.NoError(t, s.AdjustLikes(ctx, p.ID, 2))

	authors, err := svc.Authors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)

	assert.Equal(t, alice.FullName, authors[0].FullName)
	assert.Equal(t, 0, authors[0].Posts)
	assert.Equal(t, bob.FullName, authors[1].FullName)
	assert.Equal(t, 2, authors[1].Posts)
	assert.Equal(t, 2, authors[1].Likes)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	token, err := svc.Register(ctx, registration("a@x.com"))
	require.NoError(t, err)
	userID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, userID, "wrong1", "newsecret")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = svc.ChangePassword(ctx, userID, "secret1", "abc")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, userID, "secret1", "newsecret"))
	_, err = svc.Login(ctx, "a@x.com", "secret1")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	_, err = svc.Login(ctx, "a@x.com", "newsecret")
	assert.NoError(t, err)
}
