package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// LoginHandler serves POST /v1/session/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	ExpiresAt string `json:"expires_at"`
}

// ServeHTTP godoc
//
//	@Summary		Agent Login
//	@Description	Authenticates the agent against the remote core and establishes the terminal session.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Agent credentials"
//	@Success		200		{object}	loginResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/v1/session/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		UserID:    session.UserID,
		FullName:  session.FullName,
		ExpiresAt: session.LoginAt.Add(session.Duration).Format(time.RFC3339),
	})
}

// LogoutHandler serves POST /v1/session/logout.
type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Agent Logout
//	@Description	Ends the session remotely and locally. The local session is gone even when the remote call fails.
//	@Tags			Session
//	@Produce		json
//	@Success		204	"logged out"
//	@Failure		502	{object}	map[string]string
//	@Router			/v1/session/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateHandler serves POST /v1/session/activate.
type ActivateHandler struct {
	AuthService *service.AuthService
}

type activateRequest struct {
	ActivationCode string `json:"activation_code"`
}

// ServeHTTP godoc
//
//	@Summary		Device Activation
//	@Description	Redeems a first-run activation code for this terminal's device credential.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body	activateRequest	true	"Activation code"
//	@Success		204		"device activated"
//	@Failure		400		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/v1/session/activate [post].
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActivationCode == "" {
		httpx.WriteError(w, http.StatusBadRequest, "activation code is required")
		return
	}

	if err := h.AuthService.ActivateDevice(r.Context(), req.ActivationCode); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
