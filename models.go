package main

import (
	"time"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

type registerRequest struct {
	FullName    string       `json:"fullName"`
	Password    string       `json:"password"`
	Email       string       `json:"email"`
	BirthDate   *time.Time   `json:"birthDate"`
	Gender      model.Gender `json:"gender"`
	PhoneNumber *string      `json:"phoneNumber"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName    string       `json:"fullName"`
	Email       string       `json:"email"`
	BirthDate   *time.Time   `json:"birthDate"`
	Gender      model.Gender `json:"gender"`
	PhoneNumber *string      `json:"phoneNumber"`
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createPostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ReadingTime int      `json:"readingTime"`
	Image       *string  `json:"image"`
	AddressID   *string  `json:"addressId"`
	Tags        []string `json:"tags"`
}

type idResponse struct {
	ID string `json:"id"`
}

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}
