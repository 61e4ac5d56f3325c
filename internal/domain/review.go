package domain

import (
	"fmt"
	"strings"
	"time"
)

type Review struct {
	ID            int64     `json:"id"`
	SpecialistID  int64     `json:"specialist_id"`
	CustomerID    int64     `json:"customer_id"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	SpecialistID  int64  `json:"specialist_id"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() error {
	if r.SpecialistID <= 0 {
		return fmt.Errorf("specialist_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if len(r.Comment) > 2000 {
		return fmt.Errorf("comment must be at most 2000 characters")
	}
	return nil
}

func (r *CreateReviewRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}
