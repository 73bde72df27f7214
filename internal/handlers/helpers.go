package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/app"
	"github.com/AzraAnimating/ProtokollDB/internal/metrics"
)

type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// observe times a request; use as `defer h.observe(r)()`.
func (h *Handler) observe(r *http.Request) func() {
	start := time.Now()
	return func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
		).Observe(time.Since(start).Seconds())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// authenticate gates a request. Malformed or unverifiable credentials are a
// client error; a valid token without a live session (or without admin
// membership when requireAdmin is set) is Forbidden with no further detail.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, requireAdmin bool) (string, bool) {
	token, err := app.BearerToken(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}

	var valid bool
	var email string
	if requireAdmin {
		valid, email, err = h.service.AuthenticateAdmin(token)
	} else {
		valid, email, err = h.service.Authenticate(token)
	}
	if err != nil {
		logger.Debug.Printf("Auth failed: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to Authenticate")
		return "", false
	}
	if !valid {
		writeError(w, http.StatusForbidden, "Invalid Credentials")
		return "", false
	}
	return email, true
}

// parseIDList splits a comma-separated id list; an absent parameter means no
// constraint and comes back nil. Anything that fails strict integer parsing
// is rejected outright.
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
