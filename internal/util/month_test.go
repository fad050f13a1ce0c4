package util

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			in:        time.Date(2026, 6, 17, 15, 4, 5, 0, time.UTC),
			wantStart: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls into next year",
			in:        time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC),
			wantStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.in)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("MonthRange(%v) = (%v, %v), want (%v, %v)", tt.in, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestDaysBefore(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	got := DaysBefore(now, 90)
	want := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DaysBefore(%v, 90) = %v, want %v", now, got, want)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if FormatDate(got) != "2026-02-28" {
		t.Errorf("FormatDate(ParseDate) = %s, want 2026-02-28", FormatDate(got))
	}

	if _, err := ParseDate("28/02/2026"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := ParseDate("2026-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
}
