package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/models"
)

type createRequest struct {
	Field       models.Dimension `json:"field"`
	DisplayName string           `json:"display_name"`
}

// HandleSaveProtocol persists an admin-approved protocol. When the payload
// names a pending submission, that submission is consumed on success.
func (h *Handler) HandleSaveProtocol(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	var upload models.ProtocolUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := upload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(upload.Grades) != len(upload.ExaminerSubjectIDs) {
		writeError(w, http.StatusBadRequest, "Grades and examiner/subject pairs must line up")
		return
	}

	protocolUUID, err := h.service.SaveProtocol(&upload)
	if err != nil {
		logger.Error.Printf("Failed to save protocol: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"protocol_uuid": protocolUUID})
}

// HandleCreate registers a new display-name value in one of the four
// dimensions and returns its id. Known values resolve to their existing id.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	var creation createRequest
	if err := json.NewDecoder(r.Body).Decode(&creation); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, ok := creation.Field.Table(); !ok {
		writeError(w, http.StatusBadRequest, "Unknown creation field")
		return
	}

	id, ok, err := h.service.Store.ResolveOrCreateDimension(creation.Field, creation.DisplayName)
	if err != nil {
		logger.Error.Printf("Failed to create %s value: %v", creation.Field, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "No ID created!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"created_id": id})
}

func (h *Handler) HandleAddAdmin(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	var admin models.ChangeAdmin
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := admin.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.service.Store.AddAdmin(admin.EmailAddr); err != nil {
		logger.Error.Printf("Failed to add admin: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	var admin models.ChangeAdmin
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := admin.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.service.Store.RemoveAdmin(admin.EmailAddr); err != nil {
		logger.Error.Printf("Failed to remove admin: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	admins, err := h.service.Store.ListAdmins()
	if err != nil {
		logger.Error.Printf("Failed to list admins: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"admins": admins})
}

func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if _, ok := h.authenticate(w, r, true); !ok {
		return
	}

	pending, err := h.service.ListPendingSubmissions()
	if err != nil {
		logger.Error.Printf("Failed to list submissions: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": pending})
}
