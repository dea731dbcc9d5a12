package telemetry

import (
	"regexp"
	"testing"
	"time"
)

var linePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3};\d+;-?\d+\.\d{2};-?\d+\.\d{2}$`)

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 7, 42_000_000, time.UTC)

	tests := []struct {
		rec  Record
		want string
	}{
		{Record{Time: ts, BallID: 3, X: 10, Y: 20.555}, "09:05:07.042;3;10.00;20.55"},
		{Record{Time: ts, BallID: 12, X: 799.999, Y: 0.004}, "09:05:07.042;12;800.00;0.00"},
		{Record{Time: ts, BallID: 1, X: -0.5, Y: 1.25}, "09:05:07.042;1;-0.50;1.25"},
	}

	for _, tt := range tests {
		got := Format(tt.rec)
		if got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
		if !linePattern.MatchString(got) {
			t.Errorf("line %q does not match the diagnostics format", got)
		}
	}
}

func TestParse(t *testing.T) {
	rec, err := Parse("23:59:58.120;42;123.45;67.80\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.BallID != 42 || rec.X != 123.45 || rec.Y != 67.8 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Time.Hour() != 23 || rec.Time.Nanosecond() != 120_000_000 {
		t.Errorf("unexpected time: %v", rec.Time)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too few fields", "10:00:00.000;1;2.00"},
		{"bad time", "10-00-00;1;2.00;3.00"},
		{"bad id", "10:00:00.000;x;2.00;3.00"},
		{"bad x", "10:00:00.000;1;two;3.00"},
		{"bad y", "10:00:00.000;1;2.00;three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.line); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
