package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"
)

// HandleLogin bounces the browser to the identity provider. Without a
// configured provider the user lands on the misconfiguration page instead.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if !h.service.Auth.Enabled() {
		http.Redirect(w, r, "/invalidauth", http.StatusTemporaryRedirect)
		return
	}

	loginURL, err := h.service.Auth.LoginURL(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to build login redirect: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.Redirect(w, r, loginURL, http.StatusTemporaryRedirect)
}

// HandleOIDCCallback finishes the login: state check, code exchange, userinfo
// lookup, then a fresh session with its signed bearer token.
func (h *Handler) HandleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	defer h.observe(r)()

	if !h.service.Auth.Enabled() {
		writeError(w, http.StatusUnauthorized, "Authorization isn't set to openidconnect!")
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	known, err := h.service.Auth.ConsumeState(r.Context(), query.Get("state"))
	if err != nil {
		logger.Error.Printf("Failed to check login state: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !known {
		writeError(w, http.StatusBadRequest, "Unknown login state")
		return
	}

	accessToken, err := h.service.Auth.ExchangeCode(r.Context(), code)
	if err != nil {
		logger.Error.Printf("Code exchange failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	email, err := h.service.Auth.FetchUserEmail(r.Context(), accessToken)
	if err != nil {
		logger.Error.Printf("Userinfo lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.service.IssueSession(email)
	if err != nil {
		logger.Error.Printf("Failed to issue session: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
