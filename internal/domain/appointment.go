package domain

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentPending, AppointmentBooked, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

type Appointment struct {
	ID           int64             `json:"id"`
	SpecialistID int64             `json:"specialist_id"`
	CustomerID   int64             `json:"customer_id"`
	ServiceID    *int64            `json:"service_id,omitempty"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Status       AppointmentStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type CreateAppointmentRequest struct {
	SpecialistID int64     `json:"specialist_id"`
	CustomerID   int64     `json:"customer_id"`
	ServiceID    *int64    `json:"service_id,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// Business rules
const CancelCutoffHours = 24

func (r *CreateAppointmentRequest) Validate() error {
	if r.SpecialistID <= 0 {
		return fmt.Errorf("specialist_id is required")
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !r.EndTime.After(r.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if r.StartTime.Before(time.Now()) {
		return fmt.Errorf("start_time must be in the future")
	}
	return nil
}

// Normalize pins both endpoints to UTC. All storage and comparison happens in
// UTC; callers convert for display only.
func (r *CreateAppointmentRequest) Normalize() {
	r.StartTime = r.StartTime.UTC()
	r.EndTime = r.EndTime.UTC()
}

func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentCancelled || a.Status == AppointmentCompleted
}

// CanCancel enforces the 24h cutoff for customer-initiated cancellations.
func (a *Appointment) CanCancel() bool {
	if a.IsTerminal() {
		return false
	}
	cutoff := a.StartTime.Add(-CancelCutoffHours * time.Hour)
	return time.Now().Before(cutoff)
}

// CanTransitionTo limits status changes to the forward-moving edges; terminal
// states never leave.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.IsTerminal() {
		return false
	}
	switch a.Status {
	case AppointmentPending:
		return next == AppointmentBooked || next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentBooked:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	default:
		return false
	}
}
