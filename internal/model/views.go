package model

import "time"

// PostView is a post with the fields derived at read time for a given caller.
type PostView struct {
	Post
	Author        string  `db:"author" json:"author"`
	CommunityName *string `db:"community_name" json:"communityName,omitempty"`
	HasLike       bool    `db:"has_like" json:"hasLike"`
	// CommentsCount counts live comments only. Tombstones still appear in
	// PostDetail.Comments with DeletedAt set.
	CommentsCount int     `db:"comments_count" json:"commentsCount"`
	Tags          []Tag   `db:"-" json:"tags"`
}

type PostDetail struct {
	PostView
	// Comments holds the whole thread, tombstones included.
	Comments []CommentView `json:"comments"`
}

type Pagination struct {
	Size    int `json:"size"`
	Count   int `json:"count"`
	Current int `json:"current"`
}

type PostPage struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type CommentView struct {
	Comment
	Author      string `db:"author" json:"author"`
	SubComments int    `db:"sub_comments" json:"subComments"`
}

type CommunityMembership struct {
	UserID      string `json:"userId"`
	CommunityID string `json:"communityId"`
	Role        string `json:"role"`
}

type CommunityDetail struct {
	Community
	Administrators []User `json:"administrators"`
}

type AuthorView struct {
	FullName  string     `db:"full_name" json:"fullName"`
	BirthDate *time.Time `db:"birth_date" json:"birthDate,omitempty"`
	Gender    Gender     `db:"gender" json:"gender"`
	Posts     int        `db:"posts" json:"posts"`
	Likes     int        `db:"likes" json:"likes"`
	CreatedAt time.Time  `db:"created_at" json:"created"`
}
