package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/yorlect/internal/logger"
	"github.com/MKhiriev/yorlect/internal/utils"
	"github.com/MKhiriev/yorlect/models"
)

// sessionResponse is the body of every successful login.
type sessionResponse struct {
	models.Identity
	Token string `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid JSON was passed")
		writeServiceError(w, r, errMalformedPayload, "invalid JSON was passed")
		return
	}

	identity, err := h.services.AuthService.Register(r.Context(), credentials)
	if err != nil {
		writeServiceError(w, r, err, "user registration failed")
		return
	}

	h.writeSession(w, r, identity, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid JSON was passed")
		writeServiceError(w, r, errMalformedPayload, "invalid JSON was passed")
		return
	}

	identity, err := h.services.AuthService.Authenticate(r.Context(), credentials)
	if err != nil {
		writeServiceError(w, r, err, "user login failed")
		return
	}

	h.writeSession(w, r, identity, http.StatusOK)
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var credentials models.AdminCredentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid JSON was passed")
		writeServiceError(w, r, errMalformedPayload, "invalid JSON was passed")
		return
	}

	identity, err := h.services.AuthService.AuthenticateAdmin(r.Context(), credentials.Secret)
	if err != nil {
		writeServiceError(w, r, err, "admin login failed")
		return
	}

	h.writeSession(w, r, identity, http.StatusOK)
}

// writeSession issues a token for identity and returns it both in the
// Authorization header and in the body.
func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, identity models.Identity, status int) {
	log := logger.FromRequest(r)

	token, err := h.services.AuthService.CreateToken(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, err, "creation of token failed")
		return
	}

	log.Debug().Str("owner", identity.Owner).Bool("admin", identity.IsAdmin).Msg("session issued")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	if _, err = utils.WriteJSON(w, sessionResponse{Identity: identity, Token: token.SignedString}, status); err != nil {
		log.Err(err).Str("func", "*Handler.writeSession").Msg("error writing response")
	}
}
