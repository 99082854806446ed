package main

import (
	"net/http"

	"github.com/BrawlerYura/BlogAPIBack/internal/model"
)

func (s *Server) handleListCommunities(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Members.Communities(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []model.Community{}
	}
	sendJSON(w, http.StatusOK, list)
}

func (s *Server) handleMyCommunities(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	list, err := s.svc.Members.MyCommunities(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetCommunity(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Members.Detail(r.Context(), pathVar(r, "communityId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, c)
}

func (s *Server) handleCommunityPosts(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.optionalUser(w, r)
	if !valid {
		return
	}
	q, err := parsePostQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.svc.Posts.ListForCommunity(r.Context(), pathVar(r, "communityId"), q, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateCommunityPost(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.svc.Posts.CreateInCommunity(r.Context(), pathVar(r, "communityId"), req.draft(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, idResponse{ID: id})
}

// handleCommunityRole answers "Administrator", "Subscriber" or null.
func (s *Server) handleCommunityRole(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	role, err := s.svc.Members.RoleOf(r.Context(), pathVar(r, "communityId"), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if role == model.RoleNone {
		sendJSON(w, http.StatusOK, nil)
		return
	}
	sendJSON(w, http.StatusOK, role.String())
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	if err := s.svc.Members.Subscribe(r.Context(), pathVar(r, "communityId"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	if err := s.svc.Members.Unsubscribe(r.Context(), pathVar(r, "communityId"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}
