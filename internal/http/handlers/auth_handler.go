package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/response"
	"github.com/glambook/glambook-api/internal/service"
	"github.com/glambook/glambook-api/pkg/logger"
)

type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	return r
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.Auth.Register(r.Context(), &in)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(w, verr.Msg)
		case errors.Is(err, service.ErrEmailTaken):
			response.WriteError(w, http.StatusConflict, err.Error(), response.CodeEmailExists)
		default:
			logger.ErrorContext(r.Context(), "register failed", "error", err)
			response.InternalError(w, "error creating account")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user.ToUserInfo())
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	out, err := h.Auth.Login(r.Context(), &in)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(w, verr.Msg)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		default:
			logger.ErrorContext(r.Context(), "login failed", "error", err)
			response.InternalError(w, "error logging in")
		}
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var in domain.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.RefreshToken == "" {
		response.BadRequest(w, "refresh_token is required")
		return
	}

	out, err := h.Auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid refresh token")
			return
		}
		logger.ErrorContext(r.Context(), "token refresh failed", "error", err)
		response.InternalError(w, "error refreshing token")
		return
	}

	writeJSON(w, http.StatusOK, out)
}
