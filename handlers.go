package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BrawlerYura/BlogAPIBack/internal/address"
	"github.com/BrawlerYura/BlogAPIBack/internal/apperr"
	"github.com/BrawlerYura/BlogAPIBack/internal/identity"
)

func sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	reason := strconv.Itoa(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"reason": reason, "response": message})
}

func sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func sendOK(w http.ResponseWriter) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindBadRequest:   http.StatusBadRequest,
	apperr.KindUnauthorized: http.StatusUnauthorized,
}

// fail maps a service error to its status. Unclassified errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := statusByKind[apperr.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	sendError(w, status, apperr.Message(err))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// verifyToken authenticates a required bearer token and writes the failure itself.
func (s *Server) verifyToken(w http.ResponseWriter, r *http.Request) (userID string, valid bool) {
	token, ok := bearerToken(r)
	if !ok {
		sendError(w, http.StatusUnauthorized, "Missing bearer token")
		return "", false
	}
	userID, err := s.svc.Identity.Authenticate(r.Context(), token)
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return userID, true
}

// optionalUser treats a missing token as anonymous and rejects a present invalid one.
func (s *Server) optionalUser(w http.ResponseWriter, r *http.Request) (userID string, valid bool) {
	if r.Header.Get("Authorization") == "" {
		return "", true
	}
	return s.verifyToken(w, r)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := s.svc.Identity.Register(r.Context(), identity.Registration{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
		Phone:     req.PhoneNumber,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := s.svc.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		sendError(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}
	if err := s.svc.Identity.Logout(r.Context(), token); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	u, err := s.svc.Identity.Profile(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, u)
}

func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req profileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := s.svc.Identity.EditProfile(r.Context(), userID, identity.ProfileEdit{
		FullName:  req.FullName,
		Email:     req.Email,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
		Phone:     req.PhoneNumber,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, valid := s.verifyToken(w, r)
	if !valid {
		return
	}
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.Identity.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		s.fail(w, r, err)
		return
	}
	sendOK(w)
}

func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.svc.Identity.Authors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, authors)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.Posts.Tags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, tags)
}

func (s *Server) sendAddress(w http.ResponseWriter, r *http.Request, elems []address.Element, err error) {
	if errors.Is(err, address.ErrNotImplemented) {
		sendError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, elems)
}

func (s *Server) handleAddressSearch(w http.ResponseWriter, r *http.Request) {
	var parentID int64
	if v := r.URL.Query().Get("parentObjectId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			sendError(w, http.StatusBadRequest, "parentObjectId must be an integer")
			return
		}
		parentID = id
	}
	elems, err := s.svc.Addresses.Search(r.Context(), parentID, r.URL.Query().Get("query"))
	s.sendAddress(w, r, elems, err)
}

func (s *Server) handleAddressChain(w http.ResponseWriter, r *http.Request) {
	elems, err := s.svc.Addresses.Chain(r.Context(), r.URL.Query().Get("objectGuid"))
	s.sendAddress(w, r, elems, err)
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
