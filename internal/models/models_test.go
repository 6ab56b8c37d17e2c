package models

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodContains(t *testing.T) {
	jan := MonthPeriod(2024, time.January)
	tests := []struct {
		name string
		p    Period
		d    time.Time
		want bool
	}{
		{"first day", jan, date(2024, 1, 1), true},
		{"last day", jan, date(2024, 1, 31), true},
		{"end is exclusive", jan, date(2024, 2, 1), false},
		{"before start", jan, date(2023, 12, 31), false},
		{"leap year end", YearPeriod(2024), date(2024, 12, 31), true},
		{"all time", AllTime(), date(1900, 1, 1), true},
		{"open start", Period{End: date(2024, 1, 1)}, date(2000, 1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Contains(tt.d); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.d.Format(DateLayout), got, tt.want)
			}
		})
	}
}

func TestMonthPeriod_December(t *testing.T) {
	p := MonthPeriod(2024, time.December)
	if !p.End.Equal(date(2025, 1, 1)) {
		t.Errorf("End = %s", p.End)
	}
}

func TestNewPeriod(t *testing.T) {
	if _, err := NewPeriod(date(2024, 2, 1), date(2024, 2, 1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("empty range error = %v", err)
	}
	if _, err := NewPeriod(date(2024, 3, 1), date(2024, 2, 1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("reversed range error = %v", err)
	}
	p, err := NewPeriod(date(2024, 2, 1), date(2024, 3, 1))
	if err != nil || p.String() != "2024-02-01 to 2024-03-01" {
		t.Errorf("NewPeriod() = %v, %v", p, err)
	}
}

func TestPeriodString(t *testing.T) {
	if got := AllTime().String(); got != "all time" {
		t.Errorf("AllTime().String() = %q", got)
	}
	if got := (Period{Start: date(2024, 1, 1)}).String(); got != "from 2024-01-01" {
		t.Errorf("open end = %q", got)
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	got := DateOnly(time.Date(2024, 5, 6, 23, 30, 0, 0, loc))
	if !got.Equal(date(2024, 5, 6)) {
		t.Errorf("DateOnly() = %s", got)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(errors.Join(errors.New("x"), ErrInvalidAmount)) {
		t.Error("wrapped ErrInvalidAmount should be a validation error")
	}
	if IsValidation(ErrNotFound) || IsValidation(ErrConnectionFailure) {
		t.Error("not found and connection failure are not validation errors")
	}
}
