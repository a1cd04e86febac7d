package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// HandleGetDashboard handles GET /v1/dashboard?days=
func HandleGetDashboard(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := DefaultDays
		if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_days", "days must be an integer")
				return
			}
			days = parsed
		}

		summary, err := service.GetDashboard(r.Context(), days)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}
			if errors.Is(err, ErrInvalidDays) {
				writeError(w, http.StatusBadRequest, "invalid_days", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(summary)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
