// Package identity handles accounts and bearer sessions: registration, login, logout
// with a revoked-token set, token authentication and the author directory.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

const minPasswordLength = 6

type Registration struct {
	FullName  string
	Email     string
	Password  string
	Gender    model.Gender
	BirthDate *time.Time
	Phone     *string
}

type ProfileEdit struct {
	FullName  string
	Email     string
	Gender    model.Gender
	BirthDate *time.Time
	Phone     *string
}

type Service struct {
	store      *store.Store
	tokens     *Tokens
	bcryptCost int
	log        logrus.FieldLogger
}

func NewService(s *store.Store, tokens *Tokens, bcryptCost int, log logrus.FieldLogger) *Service {
	return &Service{
		store:      s,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePerson(fullName, email string, gender model.Gender, birthDate *time.Time) error {
	if strings.TrimSpace(fullName) == "" {
		return apperr.BadRequest("full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return apperr.BadRequest("invalid email")
	}
	if !gender.Valid() {
		return apperr.BadRequest("gender must be %s or %s", model.GenderMale, model.GenderFemale)
	}
	if birthDate != nil && birthDate.After(time.Now()) {
		return apperr.BadRequest("birth date cannot be in the future")
	}
	return nil
}

// Register creates the account and logs it in.
func (s *Service) Register(ctx context.Context, r Registration) (string, error) {
	email := normalizeEmail(r.Email)
	if err := validatePerson(r.FullName, email, r.Gender, r.BirthDate); err != nil {
		return "", err
	}
	if len(r.Password) < minPasswordLength {
		return "", apperr.BadRequest("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Conflict("email %s is already registered", email)
	}

	hash, err := hashPassword(r.Password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(r.FullName),
		Email:        email,
		PasswordHash: hash,
		Gender:       r.Gender,
		BirthDate:    utcPtr(r.BirthDate),
		Phone:        r.Phone,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrDuplicate) {
			return "", apperr.Conflict("email %s is already registered", email)
		}
		return "", err
	}
	s.log.WithField("user_id", u.ID).Info("user registered")

	return s.Login(ctx, email, r.Password)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.BadRequest("wrong email")
	}
	ok, err := checkPassword(u.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.BadRequest("wrong password")
	}
	return s.tokens.Issue(u.ID)
}

// Logout revokes the token until its own expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}
	if err := s.AssertNotRevoked(ctx, token); err != nil {
		return err
	}
	expires := time.Unix(claims.ExpiresAt, 0).UTC()
	if err := s.store.InsertRevokedToken(ctx, token, expires); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Unauthorized("token has been revoked")
		}
		return err
	}
	s.log.WithField("user_id", claims.Subject).Info("user logged out")
	return nil
}

// IsRevoked reports whether token is in the revoked set and not yet past its recorded expiry.
func (s *Service) IsRevoked(ctx context.Context, token string) (bool, error) {
	t, err := s.store.FindRevokedToken(ctx, token)
	if err != nil {
		return false, err
	}
	return t != nil && t.ExpiresAt.After(time.Now()), nil
}

func (s *Service) AssertNotRevoked(ctx context.Context, token string) error {
	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return apperr.Unauthorized("token has been revoked")
	}
	return nil
}

// Authenticate verifies token and returns the user id it was issued to.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	if err := s.AssertNotRevoked(ctx, token); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %s not found", userID)
	}
	return u, nil
}

func (s *Service) EditProfile(ctx context.Context, userID string, e ProfileEdit) error {
	email := normalizeEmail(e.Email)
	if err := validatePerson(e.FullName, email, e.Gender, e.BirthDate); err != nil {
		return err
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	owner, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if owner != nil && owner.ID != u.ID {
		return apperr.Conflict("email %s is already registered", email)
	}

	u.FullName = strings.TrimSpace(e.FullName)
	u.Email = email
	u.Gender = e.Gender
	u.BirthDate = utcPtr(e.BirthDate)
	u.Phone = e.Phone
	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("email %s is already registered", email)
		}
		return err
	}
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := checkPassword(u.PasswordHash, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("old password is incorrect")
	}
	if len(newPassword) < minPasswordLength {
		return apperr.BadRequest("password must be at least %d characters", minPasswordLength)
	}
	hash, err := hashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.store.UpdatePasswordHash(ctx, u.ID, hash)
}

// Authors lists every user with the number of posts written and likes received.
func (s *Service) Authors(ctx context.Context) ([]model.AuthorView, error) {
	return s.store.ListAuthors(ctx)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
