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
	"github.com/glambook/glambook-api/pkg/events"
	"github.com/glambook/glambook-api/pkg/logger"
)

type ReviewHandler struct {
	Reviews postgres.ReviewRepository
	Appts   postgres.AppointmentRepository
	Bus     events.Publisher
}

func NewReviewHandler(reviews postgres.ReviewRepository, appts postgres.AppointmentRepository, bus events.Publisher) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Appts: appts, Bus: bus}
}

func (h *ReviewHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	return r
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	// A review tied to an appointment must come from that appointment's
	// customer after the appointment finished, and only once.
	if in.AppointmentID != nil {
		appt, err := h.Appts.GetByID(r.Context(), *in.AppointmentID)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to load appointment", "error", err, "appointment_id", *in.AppointmentID)
			response.InternalError(w, "error creating review")
			return
		}
		if appt == nil || appt.CustomerID != claims.Sub || appt.SpecialistID != in.SpecialistID {
			response.NotFound(w, "appointment not found")
			return
		}
		if appt.Status != domain.AppointmentCompleted {
			response.RuleRejected(w, "only completed appointments can be reviewed")
			return
		}
		exists, err := h.Reviews.ExistsForAppointment(r.Context(), *in.AppointmentID)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to check existing review", "error", err, "appointment_id", *in.AppointmentID)
			response.InternalError(w, "error creating review")
			return
		}
		if exists {
			response.RuleRejected(w, "this appointment has already been reviewed")
			return
		}
	}

	review, err := h.Reviews.Create(r.Context(), claims.Sub, &in)
	if errors.Is(err, domain.ErrDuplicateReview) {
		response.RuleRejected(w, err.Error())
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create review", "error", err)
		response.InternalError(w, "error creating review")
		return
	}

	if err := h.Bus.Publish(r.Context(), events.ReviewCreated, events.ReviewCreatedEvent{
		ReviewID:     review.ID,
		SpecialistID: review.SpecialistID,
		CustomerID:   review.CustomerID,
		Rating:       review.Rating,
		CreatedAt:    review.CreatedAt,
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish review.created", "error", err, "review_id", review.ID)
	}

	writeJSON(w, http.StatusCreated, review)
}
