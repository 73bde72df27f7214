package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/metrics"
	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

func (h *Handler) HandleIdentifiers(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, false); !ok {
		return
	}

	identifiers, err := h.service.Store.SelectionIdentifiers()
	if err != nil {
		logger.Error.Printf("Failed to fetch selection identifiers: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, identifiers)
}

// HandleSearch resolves the five optional comma-separated id lists and runs
// the protocol search. At least one list must be present; that rule holds for
// every caller of this endpoint.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, false); !ok {
		return
	}

	query := r.URL.Query()
	lists := make(map[string][]int64, 5)
	for _, name := range []string{"examiners", "subjects", "stex", "seasons", "years"} {
		ids, err := parseIDList(query.Get(name))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		lists[name] = ids
	}

	if len(lists["examiners"]) == 0 && len(lists["subjects"]) == 0 &&
		len(lists["stex"]) == 0 && len(lists["seasons"]) == 0 && len(lists["years"]) == 0 {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		writeError(w, http.StatusNotFound, "No Search Parameters Provided")
		return
	}

	results, err := h.service.Store.SearchProtocols(
		lists["examiners"],
		lists["subjects"],
		lists["stex"],
		lists["seasons"],
		lists["years"],
	)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		logger.Error.Printf("Failed to search protocols: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(results) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		writeError(w, http.StatusNotFound, "Found no protocols matching provided Parameters")
		return
	}

	metrics.SearchesTotal.WithLabelValues("hit").Inc()
	writeJSON(w, http.StatusOK, results)
}

// HandleProtocol serves the stored body of a single protocol.
func (h *Handler) HandleProtocol(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, false); !ok {
		return
	}

	protocolUUID := r.PathValue("uuid")
	if !models.ValidUUID(protocolUUID) {
		writeError(w, http.StatusBadRequest, "Malformed protocol uuid")
		return
	}

	body, err := h.service.Archive.ReadProtocol(protocolUUID)
	if err != nil {
		logger.Error.Printf("Failed to read protocol %s: %v", protocolUUID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if body == nil {
		writeError(w, http.StatusNotFound, "No protocol with this uuid")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// HandleSubmit accepts a pending protocol from an authenticated user. The
// submission waits for admin approval before it becomes searchable.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	email, ok := h.authenticate(w, r, false)
	if !ok {
		return
	}

	var submission models.SubmittingProtocol
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := submission.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.SubmitProtocol(email, &submission); err != nil {
		logger.Error.Printf("Failed to save submission: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}
