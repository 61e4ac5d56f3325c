package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/middleware"
	"github.com/glambook/glambook-api/internal/http/response"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/pkg/logger"
)

type UserHandler struct {
	Users postgres.UserRepository
}

func NewUserHandler(users postgres.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	r.Patch("/me", h.update)
	r.Delete("/me", h.delete)
	return r
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	user, err := h.Users.FindByID(r.Context(), claims.Sub)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load user", "error", err, "user_id", claims.Sub)
		response.InternalError(w, "error loading profile")
		return
	}
	if user == nil {
		response.NotFound(w, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.Users.Update(r.Context(), claims.Sub, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to update user", "error", err, "user_id", claims.Sub)
		response.InternalError(w, "error updating profile")
		return
	}
	if user == nil {
		response.NotFound(w, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user.ToUserInfo())
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	ok, err := h.Users.Delete(r.Context(), claims.Sub)
	if errors.Is(err, domain.ErrAccountInUse) {
		response.RuleRejected(w, err.Error())
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to delete user", "error", err, "user_id", claims.Sub)
		response.InternalError(w, "error deleting account")
		return
	}
	if !ok {
		response.NotFound(w, "account no longer exists")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
