package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/http/middleware"
	"github.com/glambook/glambook-api/internal/http/response"
	"github.com/glambook/glambook-api/internal/platform/payments"
	"github.com/glambook/glambook-api/internal/repo/postgres"
	"github.com/glambook/glambook-api/pkg/events"
	"github.com/glambook/glambook-api/pkg/logger"
)

type PaymentHandler struct {
	Provider payments.Provider
	Appts    postgres.AppointmentRepository
	Services postgres.ServiceRepository
	Bus      events.Publisher
}

func NewPaymentHandler(provider payments.Provider, appts postgres.AppointmentRepository, services postgres.ServiceRepository, bus events.Publisher) *PaymentHandler {
	return &PaymentHandler{Provider: provider, Appts: appts, Services: services, Bus: bus}
}

func (h *PaymentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/intent", h.createIntent)
	return r
}

type createIntentRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

// createIntent opens a payment intent for the appointment's service price.
// Capture, refunds and webhooks live on the provider side.
func (h *PaymentHandler) createIntent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.AppointmentID <= 0 {
		response.BadRequest(w, "appointment_id is required")
		return
	}

	appt, err := h.Appts.GetByID(r.Context(), in.AppointmentID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load appointment", "error", err, "appointment_id", in.AppointmentID)
		response.InternalError(w, "error creating payment intent")
		return
	}
	if appt == nil || appt.CustomerID != claims.Sub {
		response.NotFound(w, "appointment not found")
		return
	}
	if appt.ServiceID == nil {
		response.RuleRejected(w, "appointment has no priced service")
		return
	}

	svc, err := h.Services.GetByID(r.Context(), *appt.ServiceID)
	if err != nil || svc == nil {
		logger.ErrorContext(r.Context(), "failed to load service", "error", err, "appointment_id", appt.ID)
		response.InternalError(w, "error creating payment intent")
		return
	}

	// Deterministic per appointment, so client retries reuse the intent.
	idemKey := fmt.Sprintf("intent-appt-%d", appt.ID)
	intent, err := h.Provider.CreateIntent(svc.PriceCents, svc.Currency, appt.ID, idemKey)
	if err != nil {
		logger.ErrorContext(r.Context(), "payment intent failed", "error", err, "appointment_id", appt.ID)
		response.InternalError(w, "error creating payment intent")
		return
	}

	if err := h.Bus.Publish(r.Context(), events.PaymentIntentCreated, events.PaymentIntentCreatedEvent{
		AppointmentID: appt.ID,
		IntentID:      intent.ID,
		Amount:        intent.AmountCents,
		Currency:      intent.Currency,
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish payment.intent.created", "error", err, "appointment_id", appt.ID)
	}

	writeJSON(w, http.StatusCreated, intent)
}
