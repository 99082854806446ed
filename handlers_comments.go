package main

import (
	"net/http"
)

func (s *Server) handleCommentTree(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.optionalUser(w, r)
	if !valid {
		return
	}
	list, err := s.svc.Comments.Subtree(r.Context(), pathVar(r, "postId"), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.svc.Comments.Add(r.Context(), pathVar(r, "postId"), req.Content, req.ParentID, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req editCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.Comments.Edit(r.Context(), pathVar(r, "commentId"), req.Content, userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	if err := s.svc.Comments.Delete(r.Context(), pathVar(r, "commentId"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}
