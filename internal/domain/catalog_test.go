package domain_test

import (
	"testing"

	"github.com/glambook/glambook-api/internal/domain"
)

func TestParseMinuteOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"17:45", 1065, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := domain.ParseMinuteOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMinuteOfDay(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMinuteOfDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinuteOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatMinuteOfDay(t *testing.T) {
	if got := domain.FormatMinuteOfDay(570); got != "09:30" {
		t.Errorf("FormatMinuteOfDay(570) = %q, want 09:30", got)
	}
	if got := domain.FormatMinuteOfDay(0); got != "00:00" {
		t.Errorf("FormatMinuteOfDay(0) = %q, want 00:00", got)
	}
}

func TestHoursWindowValidate(t *testing.T) {
	valid := domain.HoursWindow{Weekday: 1, Open: "09:00", Close: "17:00"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}

	bad := []domain.HoursWindow{
		{Weekday: 7, Open: "09:00", Close: "17:00"},
		{Weekday: 1, Open: "17:00", Close: "09:00"},
		{Weekday: 1, Open: "09:00", Close: "09:00"},
		{Weekday: 1, Open: "nine", Close: "17:00"},
	}
	for i, w := range bad {
		if err := w.Validate(); err == nil {
			t.Errorf("window %d accepted, want error", i)
		}
	}
}

func TestHoursWindowToBusinessHours(t *testing.T) {
	w := domain.HoursWindow{Weekday: 3, Open: "08:15", Close: "12:45"}
	h := w.ToBusinessHours(7)
	if h.SpecialistID != 7 || h.Weekday != 3 || h.OpenMinute != 495 || h.CloseMinute != 765 {
		t.Errorf("unexpected conversion: %+v", h)
	}
}
