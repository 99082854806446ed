package main

import (
	"net/http"
	"strconv"

	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/model"
	"github.com/BrawlerYura/BlogAPIBack/internal/posts"
)

const (
	defaultPage = 1
	defaultSize = 5
)

func queryInt(r *http.Request, name string) (*int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperr.BadRequest("%s must be an integer", name)
	}
	return &n, nil
}

// parsePostQuery reads ?tags=&author=&min=&max=&sorting=&onlyMyCommunities=&page=&size=.
func parsePostQuery(r *http.Request) (posts.Query, error) {
	values := r.URL.Query()
	q := posts.Query{
		TagIDs:  values["tags"],
		Author:  values.Get("author"),
		Sorting: model.PostSorting(values.Get("sorting")),
		Page:    defaultPage,
		Size:    defaultSize,
	}

	var err error
	if q.MinReadingTime, err = queryInt(r, "min"); err != nil {
		return q, err
	}
	if q.MaxReadingTime, err = queryInt(r, "max"); err != nil {
		return q, err
	}
	page, err := queryInt(r, "page")
	if err != nil {
		return q, err
	}
	if page != nil {
		q.Page = *page
	}
	size, err := queryInt(r, "size")
	if err != nil {
		return q, err
	}
	if size != nil {
		q.Size = *size
	}
	if v := values.Get("onlyMyCommunities"); v != "" {
		if q.OnlyMyCommunities, err = strconv.ParseBool(v); err != nil {
			return q, apperr.BadRequest("onlyMyCommunities must be a boolean")
		}
	}
	return q, nil
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.optionalUser(w, r)
	if !valid {
		return
	}
	q, err := parsePostQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if q.OnlyMyCommunities && userID == "" {
		sendError(w, http.StatusUnauthorized, "onlyMyCommunities requires a bearer token")
		return
	}
	page, err := s.svc.Posts.List(r.Context(), q, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, page)
}

func (r createPostRequest) draft() posts.Draft {
	return posts.Draft{
		Title:       r.Title,
		Description: r.Description,
		ReadingTime: r.ReadingTime,
		Image:       r.Image,
		AddressID:   r.AddressID,
		TagIDs:      r.Tags,
	}
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.svc.Posts.CreatePersonal(r.Context(), req.draft(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.optionalUser(w, r)
	if !valid {
		return
	}
	post, err := s.svc.Posts.Get(r.Context(), pathVar(r, "postId"), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	if err := s.svc.Likes.Add(r.Context(), pathVar(r, "postId"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	if err := s.svc.Likes.Remove(r.Context(), pathVar(r, "postId"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}
