// Package model contains the persisted entities and the read-side views assembled from them.
// Ids are string GUIDs; timestamps are stored in UTC.
package model

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type User struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Gender       Gender     `db:"gender" json:"gender"`
	BirthDate    *time.Time `db:"birth_date" json:"birthDate,omitempty"`
	Phone        *string    `db:"phone" json:"phoneNumber,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createTime"`
}

type Community struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Description      *string   `db:"description" json:"description,omitempty"`
	IsClosed         bool      `db:"is_closed" json:"isClosed"`
	SubscribersCount int       `db:"subscribers_count" json:"subscribersCount"`
	CreatedAt        time.Time `db:"created_at" json:"createTime"`
}

// Membership is one (community, user) subscription row; absence means "not a member".
type Membership struct {
	CommunityID     string `db:"community_id" json:"communityId"`
	UserID          string `db:"user_id" json:"userId"`
	IsAdministrator bool   `db:"is_administrator" json:"-"`
}

type Role int

const (
	RoleNone Role = iota
	RoleSubscriber
	RoleAdministrator
)

func (r Role) String() string {
	switch r {
	case RoleSubscriber:
		return "Subscriber"
	case RoleAdministrator:
		return "Administrator"
	default:
		return ""
	}
}

// RoleOfMembership maps an optional membership row to a role.
func RoleOfMembership(m *Membership) Role {
	switch {
	case m == nil:
		return RoleNone
	case m.IsAdministrator:
		return RoleAdministrator
	default:
		return RoleSubscriber
	}
}

type Post struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Description string    `db:"description" json:"description"`
	ReadingTime int       `db:"reading_time" json:"readingTime"`
	Photo       *string   `db:"photo" json:"image,omitempty"`
	AuthorID    string    `db:"author_id" json:"authorId"`
	CommunityID *string   `db:"community_id" json:"communityId,omitempty"`
	AddressID   *string   `db:"address_id" json:"addressId,omitempty"`
	Likes       int       `db:"likes" json:"likes"`
	CreatedAt   time.Time `db:"created_at" json:"createTime"`
}

type Tag struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createTime"`
}

type Comment struct {
	ID         string     `db:"id" json:"id"`
	Content    string     `db:"content" json:"content"`
	ParentID   *string    `db:"parent_id" json:"parentId,omitempty"`
	PostID     string     `db:"post_id" json:"postId"`
	AuthorID   string     `db:"author_id" json:"authorId"`
	CreatedAt  time.Time  `db:"created_at" json:"createTime"`
	ModifiedAt *time.Time `db:"modified_at" json:"modifiedDate,omitempty"`
	DeletedAt  *time.Time `db:"deleted_at" json:"deleteDate,omitempty"`
}

type RevokedToken struct {
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}

type PostSorting string

const (
	SortCreateDesc PostSorting = "CreateDesc"
	SortCreateAsc  PostSorting = "CreateAsc"
	SortLikeAsc    PostSorting = "LikeAsc"
	SortLikeDesc   PostSorting = "LikeDesc"
)

func (s PostSorting) Valid() bool {
	switch s {
	case "", SortCreateDesc, SortCreateAsc, SortLikeAsc, SortLikeDesc:
		return true
	}
	return false
}
