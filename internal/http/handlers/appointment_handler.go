package handlers

import (
	"context"
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

// BookingManager is what the handler needs from the booking service.
type BookingManager interface {
	Book(ctx context.Context, req *domain.CreateAppointmentRequest, idemKey string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id, actorID int64, role string) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id, actorID int64, role string, next domain.AppointmentStatus) (*domain.Appointment, error)
}

type AppointmentHandler struct {
	Bookings BookingManager
	Appts    postgres.AppointmentRepository
}

func NewAppointmentHandler(bookings BookingManager, appts postgres.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{Bookings: bookings, Appts: appts}
}

func (h *AppointmentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.listMine)
	r.Get("/{id}", h.listForSpecialist)
	r.Patch("/{id}", h.updateStatus)
	r.Delete("/{id}", h.cancel)
	return r
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.CustomerID = claims.Sub

	appt, err := h.Bookings.Book(r.Context(), &in, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Booking error taxonomy: malformed input and policy refusals are both 400
// with distinct codes, a race loss is 409, everything else is a 500.
func (h *AppointmentHandler) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Msg)
	case errors.Is(err, domain.ErrOutsideBusinessHours),
		errors.Is(err, domain.ErrSlotConflict):
		response.RuleRejected(w, err.Error())
	case errors.Is(err, domain.ErrSlotTaken):
		response.SlotTaken(w, err.Error())
	default:
		logger.ErrorContext(r.Context(), "booking failed", "error", err)
		response.InternalError(w, "error creating appointment")
	}
}

func (h *AppointmentHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	limit, offset := parsePagination(r)

	var status *domain.AppointmentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := domain.ParseAppointmentStatus(s)
		if !ok {
			response.BadRequest(w, "invalid status filter")
			return
		}
		status = &parsed
	}

	appts, err := h.Appts.ListByCustomer(r.Context(), claims.Sub, limit, offset, status)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list appointments", "error", err, "customer_id", claims.Sub)
		response.InternalError(w, "error listing appointments")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// listForSpecialist returns the specialist's calendar. Unfiltered by status
// so cancelled slots still show in history views.
func (h *AppointmentHandler) listForSpecialist(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}
	if claims.Role != domain.RoleAdmin && claims.Sub != id {
		response.Forbidden(w, "not your calendar")
		return
	}

	limit, offset := parsePagination(r)
	appts, err := h.Appts.ListBySpecialist(r.Context(), id, limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list appointments", "error", err, "specialist_id", id)
		response.InternalError(w, "error listing appointments")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}

	var in domain.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	next, valid := domain.ParseAppointmentStatus(in.Status)
	if !valid {
		response.BadRequest(w, "invalid status")
		return
	}

	appt, err := h.Bookings.UpdateStatus(r.Context(), id, claims.Sub, claims.Role, next)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "appointment not found")
		case errors.As(err, &verr):
			response.RuleRejected(w, verr.Msg)
		default:
			logger.ErrorContext(r.Context(), "status update failed", "error", err, "appointment_id", id)
			response.InternalError(w, "error updating appointment")
		}
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) cancel(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, ok := urlParamInt64(r, "id")
	if !ok {
		response.BadRequest(w, "invalid id")
		return
	}

	appt, err := h.Bookings.Cancel(r.Context(), id, claims.Sub, claims.Role)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "appointment not found")
		case errors.As(err, &verr):
			response.RuleRejected(w, verr.Msg)
		default:
			logger.ErrorContext(r.Context(), "cancel failed", "error", err, "appointment_id", id)
			response.InternalError(w, "error cancelling appointment")
		}
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
