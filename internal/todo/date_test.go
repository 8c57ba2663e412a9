package todo

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"iso date", "2024-03-15", NewDate(2024, time.March, 15), false},
		{"surrounding space", "  2024-03-15 ", NewDate(2024, time.March, 15), false},
		{"leap day", "2024-02-29", NewDate(2024, time.February, 29), false},
		{"date time", "2024-03-15T10:30:00", NewDate(2024, time.March, 15), false},
		{"date time with zone", "2024-03-15T23:30:00+02:00", NewDate(2024, time.March, 15), false},
		{"date time with space", "2024-03-15 10:30", NewDate(2024, time.March, 15), false},
		{"day first", "15/03/2024", Date{}, true},
		{"not a leap year", "2023-02-29", Date{}, true},
		{"month out of range", "2024-13-01", Date{}, true},
		{"empty", "", Date{}, true},
		{"garbage", "tomorrow", Date{}, true},
		{"year zero", "0000-01-01", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	if got := d.String(); got != "2024-03-05" {
		t.Errorf("String: got %q, want 2024-03-05", got)
	}
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2024, time.March, 5)
	b := NewDate(2024, time.March, 6)
	if !a.Before(b) {
		t.Error("expected 2024-03-05 before 2024-03-06")
	}
	if b.Before(a) {
		t.Error("expected 2024-03-06 not before 2024-03-05")
	}
}

func TestDateIsZero(t *testing.T) {
	if !(Date{}).IsZero() {
		t.Error("expected zero Date to report IsZero")
	}
	if NewDate(2024, time.January, 1).IsZero() {
		t.Error("expected real date to not be zero")
	}
}

func TestDateValid(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"normal", Date{2024, time.March, 15}, true},
		{"leap day", Date{2024, time.February, 29}, true},
		{"zero", Date{}, false},
		{"feb 30", Date{2024, time.February, 30}, false},
		{"month 13", Date{2024, 13, 1}, false},
		{"day 0", Date{2024, time.March, 0}, false},
		{"year 0", Date{0, time.January, 1}, false},
		{"five digit year", Date{10000, time.January, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Valid(); got != tt.want {
				t.Errorf("Valid(%+v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestParseDateStrict(t *testing.T) {
	got, err := ParseDateStrict(" 2024-03-15 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := NewDate(2024, time.March, 15); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, input := range []string{"2024-03-15T00:00:00", "2024-02-30", "15/03/2024", ""} {
		if _, err := ParseDateStrict(input); err == nil {
			t.Errorf("ParseDateStrict(%q): expected error", input)
		}
	}
}
