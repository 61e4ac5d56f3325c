package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/middleware"
	"github.com/glambook/glambook-api/internal/http/response"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/pkg/logger"
)

// CatalogHandler serves the public specialist directory plus the
// specialist-owned service and business-hours management.
type CatalogHandler struct {
	Users    postgres.UserRepository
	Services postgres.ServiceRepository
	Hours    postgres.HoursRepository
	Reviews  postgres.ReviewRepository
}

func NewCatalogHandler(users postgres.UserRepository, services postgres.ServiceRepository, hours postgres.HoursRepository, reviews postgres.ReviewRepository) *CatalogHandler {
	return &CatalogHandler{Users: users, Services: services, Hours: hours, Reviews: reviews}
}

// SpecialistRoutes is the /specialists subtree: public reads plus the
// owner-only hours replacement, which goes through the supplied auth
// middleware.
func (h *CatalogHandler) SpecialistRoutes(requireSpecialist ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listSpecialists)
	r.Get("/{id}", h.getSpecialist)
	r.Get("/{id}/services", h.listServices)
	r.Get("/{id}/hours", h.getHours)
	r.Get("/{id}/reviews", h.listReviews)
	r.With(requireSpecialist...).Put("/{id}/hours", h.replaceHours)
	return r
}

// ServiceRoutes is the /services subtree; callers gate it behind a
// specialist token.
func (h *CatalogHandler) ServiceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.createService)
	r.Patch("/{id}", h.updateService)
	r.Delete("/{id}", h.deleteService)
	return r
}

type specialistProfile struct {
	*domain.UserInfo
	Services []domain.Service     `json:"services"`
	Hours    []domain.HoursWindow `json:"hours"`
}

func (h *CatalogHandler) listSpecialists(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	q := r.URL.Query()

	users, err := h.Users.ListSpecialists(r.Context(), q.Get("q"), q.Get("location"), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list specialists", "error", err)
		response.InternalError(w, "error listing specialists")
		return
	}

	infos := make([]*domain.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *CatalogHandler) getSpecialist(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}

	user, err := h.Users.FindByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load specialist", "error", err, "specialist_id", id)
		response.InternalError(w, "error loading specialist")
		return
	}
	if user == nil || user.Role != domain.RoleSpecialist {
		response.NotFound(w, "specialist not found")
		return
	}

	services, err := h.Services.ListBySpecialist(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load services", "error", err, "specialist_id", id)
		response.InternalError(w, "error loading specialist")
		return
	}
	windows, err := h.Hours.ListBySpecialist(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load hours", "error", err, "specialist_id", id)
		response.InternalError(w, "error loading specialist")
		return
	}

	writeJSON(w, http.StatusOK, specialistProfile{
		UserInfo: user.ToUserInfo(),
		Services: services,
		Hours:    toWindows(windows),
	})
}

func (h *CatalogHandler) listServices(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}
	services, err := h.Services.ListBySpecialist(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list services", "error", err, "specialist_id", id)
		response.InternalError(w, "error listing services")
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *CatalogHandler) getHours(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}
	windows, err := h.Hours.ListBySpecialist(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load hours", "error", err, "specialist_id", id)
		response.InternalError(w, "error loading hours")
		return
	}
	writeJSON(w, http.StatusOK, toWindows(windows))
}

func (h *CatalogHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}
	limit, offset := parsePagination(r)
	reviews, err := h.Reviews.ListBySpecialist(r.Context(), id, limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list reviews", "error", err, "specialist_id", id)
		response.InternalError(w, "error listing reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *CatalogHandler) replaceHours(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}
	if claims.Role != domain.RoleAdmin && claims.Sub != id {
		response.Forbidden(w, "not your schedule")
		return
	}

	var in domain.ReplaceHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	windows := make([]domain.BusinessHours, 0, len(in.Windows))
	for i := range in.Windows {
		if err := in.Windows[i].Validate(); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		windows = append(windows, in.Windows[i].ToBusinessHours(id))
	}

	if err := h.Hours.ReplaceAll(r.Context(), id, windows); err != nil {
		logger.ErrorContext(r.Context(), "failed to replace hours", "error", err, "specialist_id", id)
		response.InternalError(w, "error saving hours")
		return
	}
	writeJSON(w, http.StatusOK, in.Windows)
}

func (h *CatalogHandler) createService(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if err := in.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, err := h.Services.Create(r.Context(), claims.Sub, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create service", "error", err, "specialist_id", claims.Sub)
		response.InternalError(w, "error creating service")
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (h *CatalogHandler) updateService(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}

	existing, err := h.Services.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load service", "error", err, "service_id", id)
		response.InternalError(w, "error updating service")
		return
	}
	if existing == nil || existing.SpecialistID != claims.Sub {
		response.NotFound(w, "service not found")
		return
	}

	var in domain.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if in.DurationMin != nil && *in.DurationMin <= 0 {
		response.BadRequest(w, "duration_min must be positive")
		return
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		response.BadRequest(w, "price_cents must not be negative")
		return
	}

	svc, err := h.Services.Update(r.Context(), id, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to update service", "error", err, "service_id", id)
		response.InternalError(w, "error updating service")
		return
	}
	if svc == nil {
		response.NotFound(w, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *CatalogHandler) deleteService(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}

	existing, err := h.Services.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load service", "error", err, "service_id", id)
		response.InternalError(w, "error deleting service")
		return
	}
	if existing == nil || existing.SpecialistID != claims.Sub {
		response.NotFound(w, "service not found")
		return
	}

	if _, err := h.Services.Delete(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "failed to delete service", "error", err, "service_id", id)
		response.InternalError(w, "error deleting service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toWindows(hours []domain.BusinessHours) []domain.HoursWindow {
	windows := make([]domain.HoursWindow, 0, len(hours))
	for _, h := range hours {
		windows = append(windows, domain.HoursWindow{
			Weekday: h.Weekday,
			Open:    domain.FormatMinuteOfDay(h.OpenMinute),
			Close:   domain.FormatMinuteOfDay(h.CloseMinute),
		})
	}
	return windows
}
