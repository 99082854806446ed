package main

import (
	"github.com/gorilla/mux"
)

func defineRoutes(router *mux.Router, s *Server) {
	router.HandleFunc("/api/ping", s.handlePing).Methods("GET")

	router.HandleFunc("/api/account/register", s.handleRegister).Methods("POST")
	router.HandleFunc("/api/account/login", s.handleLogin).Methods("POST")
	router.HandleFunc("/api/account/logout", s.handleLogout).Methods("POST")
	router.HandleFunc("/api/account/profile", s.handleGetProfile).Methods("GET")
	router.HandleFunc("/api/account/profile", s.handleEditProfile).Methods("PUT")
	router.HandleFunc("/api/account/password", s.handleChangePassword).Methods("PUT")
	router.HandleFunc("/api/author/list", s.handleListAuthors).Methods("GET")

	router.HandleFunc("/api/tag", s.handleListTags).Methods("GET")

	router.HandleFunc("/api/post", s.handleListPosts).Methods("GET")
	router.HandleFunc("/api/post", s.handleCreatePost).Methods("POST")
	router.HandleFunc("/api/post/{postId}", s.handleGetPost).Methods("GET")
	router.HandleFunc("/api/post/{postId}/like", s.handleLikePost).Methods("POST")
	router.HandleFunc("/api/post/{postId}/like", s.handleUnlikePost).Methods("DELETE")
	router.HandleFunc("/api/post/{postId}/tree", s.handleCommentTree).Methods("GET")
	router.HandleFunc("/api/post/{postId}/comment", s.handleAddComment).Methods("POST")

	router.HandleFunc("/api/comment/{commentId}", s.handleEditComment).Methods("PUT")
	router.HandleFunc("/api/comment/{commentId}", s.handleDeleteComment).Methods("DELETE")

	// "/my" before "/{communityId}"
	router.HandleFunc("/api/community", s.handleListCommunities).Methods("GET")
	router.HandleFunc("/api/community/my", s.handleMyCommunities).Methods("GET")
	router.HandleFunc("/api/community/{communityId}", s.handleGetCommunity).Methods("GET")
	router.HandleFunc("/api/community/{communityId}/post", s.handleCommunityPosts).Methods("GET")
	router.HandleFunc("/api/community/{communityId}/post", s.handleCreateCommunityPost).Methods("POST")
	router.HandleFunc("/api/community/{communityId}/role", s.handleCommunityRole).Methods("GET")
	router.HandleFunc("/api/community/{communityId}/subscribe", s.handleSubscribe).Methods("POST")
	router.HandleFunc("/api/community/{communityId}/unsubscribe", s.handleUnsubscribe).Methods("DELETE")

	router.HandleFunc("/api/address/search", s.handleAddressSearch).Methods("GET")
	router.HandleFunc("/api/address/chain", s.handleAddressChain).Methods("GET")
}
