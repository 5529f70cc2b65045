package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"salesreport/internal/common"
	"salesreport/internal/server/models"
)

const reportKindDaily = "daily"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.users.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		// one generic message for every credential failure
		if errors.Is(err, common.ErrorUnauthorized) {
			respondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}

type registerRequest struct {
	FullName string `json:"fullName"`
	UserName string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.users.Register(r.Context(), req.FullName, req.UserName, req.Password, models.Role(req.Role))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleListViewableUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	users, err := s.users.ListViewable(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

func (s *Server) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := s.permissions.List(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, perms)
}

type createPermissionRequest struct {
	ViewerID string `json:"viewerId"`
	VieweeID string `json:"vieweeId"`
}

func (s *Server) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	perm, err := s.permissions.Create(r.Context(), req.ViewerID, req.VieweeID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, perm)
}

func (s *Server) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.permissions.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Permission removed"})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	vars := mux.Vars(r)
	targetUserID := vars["userId"]

	if vars["kind"] == reportKindDaily {
		recs, err := s.reports.ListDaily(r.Context(), claims.UserID, claims.Role, targetUserID)
		if err != nil {
			s.respondServiceError(w, r, err)
			return
		}
		if recs == nil {
			recs = []models.DailyActivity{}
		}
		respondJSON(w, http.StatusOK, recs)
		return
	}

	recs, err := s.reports.ListWeekly(r.Context(), claims.UserID, claims.Role, targetUserID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.WeeklyPlan{}
	}
	respondJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	if mux.Vars(r)["kind"] == reportKindDaily {
		var in models.DailyActivity
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		rec, err := s.reports.CreateDaily(r.Context(), claims.UserID, in)
		if err != nil {
			s.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, rec)
		return
	}

	var in models.WeeklyPlan
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rec, err := s.reports.CreateWeekly(r.Context(), claims.UserID, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if vars["kind"] == reportKindDaily {
		var patch models.DailyActivityPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		rec, err := s.reports.UpdateDaily(r.Context(), claims.UserID, claims.Role, id, patch)
		if err != nil {
			s.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rec)
		return
	}

	var patch models.WeeklyPlanPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rec, err := s.reports.UpdateWeekly(r.Context(), claims.UserID, claims.Role, id, patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	vars := mux.Vars(r)
	kind := vars["kind"]
	id := vars["id"]

	var err error
	if kind == reportKindDaily {
		err = s.reports.DeleteDaily(r.Context(), claims.UserID, claims.Role, id)
	} else {
		err = s.reports.DeleteWeekly(r.Context(), claims.UserID, claims.Role, id)
	}
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("%s report deleted successfully", kind)})
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) handleSummarizeReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	vars := mux.Vars(r)
	targetUserID := vars["userId"]

	var text string
	var err error
	if vars["kind"] == reportKindDaily {
		text, err = s.summaries.SummarizeDaily(r.Context(), claims.UserID, claims.Role, targetUserID)
	} else {
		text, err = s.summaries.SummarizeWeekly(r.Context(), claims.UserID, claims.Role, targetUserID)
	}
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

type exportResponse struct {
	Key string `json:"key"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	userID := mux.Vars(r)["userId"]

	key, err := s.exports.ExportUser(r.Context(), claims.Role, userID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, exportResponse{Key: key})
}
