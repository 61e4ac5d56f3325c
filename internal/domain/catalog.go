package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Service is a bookable catalog entry owned by a specialist. Read-only for
// the booking flow.
type Service struct {
	ID           int64     `json:"id"`
	SpecialistID int64     `json:"specialist_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DurationMin  int       `json:"duration_min"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}

func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.DurationMin <= 0 {
		return fmt.Errorf("duration_min must be positive")
	}
	if r.PriceCents < 0 {
		return fmt.Errorf("price_cents must not be negative")
	}
	if r.Currency == "" {
		r.Currency = "usd"
	}
	return nil
}

// BusinessHours is one open/close window for a specialist on a weekday.
// Times are minutes from midnight, so comparisons are minute-granular. A
// specialist may carry several windows per weekday; any matching window is
// enough for a booking to pass the hours check.
type BusinessHours struct {
	ID           int64 `json:"id"`
	SpecialistID int64 `json:"specialist_id"`
	Weekday      int   `json:"weekday"` // 0=Sunday .. 6=Saturday
	OpenMinute   int   `json:"open_minute"`
	CloseMinute  int   `json:"close_minute"`
}

// HoursWindow is the wire form of a business-hours entry, with "HH:MM" times.
type HoursWindow struct {
	Weekday int    `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

type ReplaceHoursRequest struct {
	Windows []HoursWindow `json:"windows"`
}

func (w *HoursWindow) Validate() error {
	if w.Weekday < 0 || w.Weekday > 6 {
		return fmt.Errorf("weekday must be between 0 and 6")
	}
	open, err := ParseMinuteOfDay(w.Open)
	if err != nil {
		return fmt.Errorf("invalid open time: %w", err)
	}
	close, err := ParseMinuteOfDay(w.Close)
	if err != nil {
		return fmt.Errorf("invalid close time: %w", err)
	}
	if close <= open {
		return fmt.Errorf("close must be after open")
	}
	return nil
}

// ToBusinessHours converts a validated window to its storage form.
func (w *HoursWindow) ToBusinessHours(specialistID int64) BusinessHours {
	open, _ := ParseMinuteOfDay(w.Open)
	close, _ := ParseMinuteOfDay(w.Close)
	return BusinessHours{
		SpecialistID: specialistID,
		Weekday:      w.Weekday,
		OpenMinute:   open,
		CloseMinute:  close,
	}
}

// ParseMinuteOfDay parses "HH:MM" into minutes from midnight.
func ParseMinuteOfDay(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatMinuteOfDay renders minutes from midnight as "HH:MM".
func FormatMinuteOfDay(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
