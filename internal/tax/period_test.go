package tax

import (
	"errors"
	"testing"
	"time"
)

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{name: "annual period", year: 2026, month: 0},
		{name: "monthly period", year: 2026, month: 3},
		{name: "december", year: 2026, month: 12},
		{name: "year before statutory floor", year: 2025, month: 1, wantErr: true},
		{name: "month thirteen", year: 2026, month: 13, wantErr: true},
		{name: "negative month", year: 2026, month: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeriod(tt.year, tt.month)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("error = %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPeriod() error = %v", err)
			}
			if p.Year != tt.year || p.Month != tt.month {
				t.Errorf("Period = %+v, want {%d %d}", p, tt.year, tt.month)
			}
		})
	}
}

func TestPeriodWindow(t *testing.T) {
	annual, _ := NewPeriod(2026, 0)
	start, end := annual.Window()
	if !start.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("annual start = %v", start)
	}
	if !end.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("annual end = %v", end)
	}

	march, _ := NewPeriod(2026, 3)
	start, end = march.Window()
	if !start.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("march start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("march end = %v", end)
	}

	december, _ := NewPeriod(2026, 12)
	start, end = december.Window()
	if !start.Equal(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("december start = %v", start)
	}
	if !end.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("december end = %v", end)
	}
}

func TestPeriodLabel(t *testing.T) {
	annual, _ := NewPeriod(2026, 0)
	if got := annual.Label(); got != "2026" {
		t.Errorf("Label() = %q, want 2026", got)
	}

	march, _ := NewPeriod(2026, 3)
	if got := march.Label(); got != "2026-03" {
		t.Errorf("Label() = %q, want 2026-03", got)
	}
}

func TestPeriodDeadline(t *testing.T) {
	annual, _ := NewPeriod(2026, 0)
	march, _ := NewPeriod(2026, 3)
	december, _ := NewPeriod(2026, 12)

	tests := []struct {
		name    string
		period  Period
		taxType string
		want    time.Time
	}{
		{
			name:    "PIT due end of March following year",
			period:  annual,
			taxType: TypePIT,
			want:    time.Date(2027, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "CIT due end of June following year",
			period:  annual,
			taxType: TypeCIT,
			want:    time.Date(2027, time.June, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "VAT due 21st of following month",
			period:  march,
			taxType: TypeVAT,
			want:    time.Date(2026, time.April, 21, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "WHT due 21st of following month",
			period:  march,
			taxType: TypeWHT,
			want:    time.Date(2026, time.April, 21, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "PAYE due 10th of following month",
			period:  march,
			taxType: TypePAYE,
			want:    time.Date(2026, time.April, 10, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "annual VAT deadline follows December",
			period:  annual,
			taxType: TypeVAT,
			want:    time.Date(2027, time.January, 21, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "december VAT rolls into next year",
			period:  december,
			taxType: TypeVAT,
			want:    time.Date(2027, time.January, 21, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "annual PAYE deadline follows December",
			period:  annual,
			taxType: TypePAYE,
			want:    time.Date(2027, time.January, 10, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Deadline(tt.taxType); !got.Equal(tt.want) {
				t.Errorf("Deadline(%s) = %v, want %v", tt.taxType, got, tt.want)
			}
		})
	}
}
