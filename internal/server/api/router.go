package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	api.HandleFunc("/users/register", s.withAuth(s.withAdmin(s.handleRegister))).Methods(http.MethodPost)
	api.HandleFunc("/users/viewable", s.withAuth(s.handleListViewableUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", s.withAuth(s.withAdmin(s.handleListUsers))).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.withAuth(s.withAdmin(s.handleDeleteUser))).Methods(http.MethodDelete)

	api.HandleFunc("/permissions", s.withAuth(s.withAdmin(s.handleListPermissions))).Methods(http.MethodGet)
	api.HandleFunc("/permissions", s.withAuth(s.withAdmin(s.handleCreatePermission))).Methods(http.MethodPost)
	api.HandleFunc("/permissions/{id}", s.withAuth(s.withAdmin(s.handleDeletePermission))).Methods(http.MethodDelete)

	api.HandleFunc("/reports/{kind:daily|weekly}/{userId}/summary", s.withAuth(s.handleSummarizeReports)).Methods(http.MethodPost)
	api.HandleFunc("/reports/{kind:daily|weekly}/{userId}", s.withAuth(s.handleListReports)).Methods(http.MethodGet)
	api.HandleFunc("/reports/{kind:daily|weekly}", s.withAuth(s.handleCreateReport)).Methods(http.MethodPost)
	api.HandleFunc("/reports/{kind:daily|weekly}/{id}", s.withAuth(s.handleUpdateReport)).Methods(http.MethodPut)
	api.HandleFunc("/reports/{kind:daily|weekly}/{id}", s.withAuth(s.handleDeleteReport)).Methods(http.MethodDelete)

	api.HandleFunc("/export/{userId}", s.withAuth(s.withAdmin(s.handleExport))).Methods(http.MethodPost)

	return r
}
