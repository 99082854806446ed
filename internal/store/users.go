package store

import (
	"context"
	"fmt"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

const userColumns = `id, full_name, email, password_hash, gender, birth_date, phone, created_at`

func (q *Queries) InsertUser(ctx context.Context, u *model.User) error {
	_, err := q.exec(ctx, `
INSERT INTO users (`+userColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Gender, u.BirthDate, u.Phone, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (q *Queries) UpdateUser(ctx context.Context, u *model.User) error {
	_, err := q.exec(ctx, `
UPDATE users
   SET full_name = ?, email = ?, gender = ?, birth_date = ?, phone = ?
 WHERE id = ?`,
		u.FullName, u.Email, u.Gender, u.BirthDate, u.Phone, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (q *Queries) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if _, err := q.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (q *Queries) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	ok, err := q.find(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (q *Queries) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	ok, err := q.find(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// ListAuthors returns every user with the number of posts written and likes received.
func (q *Queries) ListAuthors(ctx context.Context) ([]model.AuthorView, error) {
	var out []model.AuthorView
	err := q.selectIn(ctx, &out, `
SELECT u.full_name, u.birth_date, u.gender, u.created_at,
       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS posts,
       (SELECT COALESCE(SUM(p.likes), 0) FROM posts p WHERE p.author_id = u.id) AS likes
  FROM users u
 ORDER BY u.full_name, u.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return out, nil
}
