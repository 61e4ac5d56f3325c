package handlers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/handlers"
	"github.com/glambook/glambook-api/internal/http/middleware"
)

func newUserRouter(users *mockUserRepo) chi.Router {
	h := handlers.NewUserHandler(users)
	r := chi.NewRouter()
	r.Use(middleware.RequireJWT(testSecret))
	r.Mount("/users", h.Routes())
	return r
}

func TestDeleteAccount_Success(t *testing.T) {
	r := newUserRouter(&mockUserRepo{deleted: true})

	rec := doJSON(t, r, http.MethodDelete, "/users/me", bearerFor(t, 3, domain.RoleCustomer), nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteAccount_WithHistoryRejected(t *testing.T) {
	r := newUserRouter(&mockUserRepo{deleteErr: domain.ErrAccountInUse})

	rec := doJSON(t, r, http.MethodDelete, "/users/me", bearerFor(t, 3, domain.RoleCustomer), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	msg, code := decodeError(t, rec)
	if code != "RULE_REJECTED" {
		t.Errorf("code = %q, want RULE_REJECTED", code)
	}
	if msg != domain.ErrAccountInUse.Error() {
		t.Errorf("error = %q, want %q", msg, domain.ErrAccountInUse.Error())
	}
}

func TestGetProfile_Me(t *testing.T) {
	users := &mockUserRepo{users: map[int64]*domain.User{
		3: {ID: 3, Role: domain.RoleCustomer, Email: "kim@test.local", Name: "Kim"},
	}}
	r := newUserRouter(users)

	rec := doJSON(t, r, http.MethodGet, "/users/me", bearerFor(t, 3, domain.RoleCustomer), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}
