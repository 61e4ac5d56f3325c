package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-api/internal/domain"
	"github.com/glambook/glambook-api/internal/http/handlers"
	"github.com/glambook/glambook-api/internal/http/middleware"
)

type noopBus struct{}

func (noopBus) Publish(context.Context, string, interface{}) error { return nil }
func (noopBus) Close() error                                       { return nil }

func newReviewRouter(reviews *mockReviewRepo, appts *mockApptRepo) chi.Router {
	h := handlers.NewReviewHandler(reviews, appts, noopBus{})
	r := chi.NewRouter()
	r.Use(middleware.RequireJWT(testSecret))
	r.Mount("/reviews", h.Routes())
	return r
}

func completedAppt(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID: id, SpecialistID: 7, CustomerID: 3,
		Status: domain.AppointmentCompleted,
	}
}

func reviewBody(appointmentID int64) map[string]any {
	return map[string]any{
		"specialist_id":  7,
		"appointment_id": appointmentID,
		"rating":         5,
		"comment":        "great cut",
	}
}

func TestCreateReview_Success(t *testing.T) {
	apptID := int64(9)
	reviews := &mockReviewRepo{created: &domain.Review{
		ID: 1, SpecialistID: 7, CustomerID: 3, AppointmentID: &apptID, Rating: 5,
	}}
	appts := &mockApptRepo{byID: map[int64]*domain.Appointment{9: completedAppt(9)}}
	r := newReviewRouter(reviews, appts)

	rec := doJSON(t, r, http.MethodPost, "/reviews", bearerFor(t, 3, domain.RoleCustomer), reviewBody(9))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateReview_SecondSubmissionRejected(t *testing.T) {
	// The storage unique index decides, not the handler pre-check, so a
	// concurrent double submission loses cleanly too.
	reviews := &mockReviewRepo{createErr: domain.ErrDuplicateReview}
	appts := &mockApptRepo{byID: map[int64]*domain.Appointment{9: completedAppt(9)}}
	r := newReviewRouter(reviews, appts)

	rec := doJSON(t, r, http.MethodPost, "/reviews", bearerFor(t, 3, domain.RoleCustomer), reviewBody(9))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	msg, code := decodeError(t, rec)
	if code != "RULE_REJECTED" {
		t.Errorf("code = %q, want RULE_REJECTED", code)
	}
	if msg != domain.ErrDuplicateReview.Error() {
		t.Errorf("error = %q, want %q", msg, domain.ErrDuplicateReview.Error())
	}
}

func TestCreateReview_UncompletedAppointmentRejected(t *testing.T) {
	appt := completedAppt(9)
	appt.Status = domain.AppointmentBooked
	appts := &mockApptRepo{byID: map[int64]*domain.Appointment{9: appt}}
	r := newReviewRouter(&mockReviewRepo{}, appts)

	rec := doJSON(t, r, http.MethodPost, "/reviews", bearerFor(t, 3, domain.RoleCustomer), reviewBody(9))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateReview_ForeignAppointmentHidden(t *testing.T) {
	appts := &mockApptRepo{byID: map[int64]*domain.Appointment{9: completedAppt(9)}}
	r := newReviewRouter(&mockReviewRepo{}, appts)

	rec := doJSON(t, r, http.MethodPost, "/reviews", bearerFor(t, 4, domain.RoleCustomer), reviewBody(9))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}
