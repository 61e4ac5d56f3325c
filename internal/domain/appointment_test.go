package domain_test

import (
	"testing"
	"time"

	"github.com/glambook/glambook-api/internal/domain"
)

func TestCreateAppointmentRequestValidate(t *testing.T) {
	future := time.Now().UTC().Add(48 * time.Hour)

	ok := domain.CreateAppointmentRequest{
		SpecialistID: 1, CustomerID: 2,
		StartTime: future, EndTime: future.Add(time.Hour),
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	bad := []domain.CreateAppointmentRequest{
		{SpecialistID: 0, StartTime: future, EndTime: future.Add(time.Hour)},
		{SpecialistID: 1, StartTime: future, EndTime: future},
		{SpecialistID: 1, StartTime: future.Add(time.Hour), EndTime: future},
		{SpecialistID: 1, StartTime: time.Now().UTC().Add(-time.Hour), EndTime: time.Now().UTC()},
		{SpecialistID: 1},
	}
	for i, req := range bad {
		if err := req.Validate(); err == nil {
			t.Errorf("request %d accepted, want error", i)
		}
	}
}

func TestNormalizePinsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	req := domain.CreateAppointmentRequest{
		StartTime: time.Date(2027, 6, 1, 12, 0, 0, 0, loc),
		EndTime:   time.Date(2027, 6, 1, 13, 0, 0, 0, loc),
	}
	req.Normalize()
	if req.StartTime.Location() != time.UTC || req.EndTime.Location() != time.UTC {
		t.Error("times not pinned to UTC")
	}
	if req.StartTime.Hour() != 9 {
		t.Errorf("start hour = %d, want 9 (12:00+03 in UTC)", req.StartTime.Hour())
	}
}

func TestCanCancelCutoff(t *testing.T) {
	far := domain.Appointment{Status: domain.AppointmentBooked, StartTime: time.Now().Add(48 * time.Hour)}
	if !far.CanCancel() {
		t.Error("48h-out appointment should be cancellable")
	}
	near := domain.Appointment{Status: domain.AppointmentBooked, StartTime: time.Now().Add(2 * time.Hour)}
	if near.CanCancel() {
		t.Error("2h-out appointment should not be cancellable")
	}
	done := domain.Appointment{Status: domain.AppointmentCompleted, StartTime: time.Now().Add(48 * time.Hour)}
	if done.CanCancel() {
		t.Error("completed appointment should not be cancellable")
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.AppointmentStatus
		want     bool
	}{
		{domain.AppointmentPending, domain.AppointmentBooked, true},
		{domain.AppointmentPending, domain.AppointmentConfirmed, true},
		{domain.AppointmentPending, domain.AppointmentCancelled, true},
		{domain.AppointmentPending, domain.AppointmentCompleted, false},
		{domain.AppointmentBooked, domain.AppointmentConfirmed, true},
		{domain.AppointmentBooked, domain.AppointmentCancelled, true},
		{domain.AppointmentBooked, domain.AppointmentCompleted, false},
		{domain.AppointmentConfirmed, domain.AppointmentCompleted, true},
		{domain.AppointmentConfirmed, domain.AppointmentCancelled, true},
		{domain.AppointmentCompleted, domain.AppointmentConfirmed, false},
		{domain.AppointmentCancelled, domain.AppointmentBooked, false},
	}
	for _, tt := range tests {
		a := domain.Appointment{Status: tt.from}
		if got := a.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
