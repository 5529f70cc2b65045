package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"salesreport/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondServiceError maps sentinel service errors onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		respondError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, common.ErrorForbidden):
		respondError(w, http.StatusForbidden, "Access denied.")
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(w, http.StatusConflict, "Username already exists.")
	default:
		s.logger.Error(r.Context(), "unhandled service error", "path", r.URL.Path, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}
