package ui

import (
	"testing"
	"time"
)

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "zero", t: time.Time{}, want: "unknown"},
		{name: "future clamps to now", t: now.Add(time.Hour), want: "now"},
		{name: "seconds", t: now.Add(-30 * time.Second), want: "now"},
		{name: "minutes", t: now.Add(-5 * time.Minute), want: "5m ago"},
		{name: "hours", t: now.Add(-3 * time.Hour), want: "3h ago"},
		{name: "days", t: now.Add(-50 * time.Hour), want: "2d ago"},
		{name: "weeks", t: now.Add(-9 * 24 * time.Hour), want: "1w ago"},
		{name: "months", t: now.Add(-70 * 24 * time.Hour), want: "2mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeRel(tt.t); got != tt.want {
				t.Fatalf("FormatTimeRel = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 5, "ab   "},
		{"hello", 3, "hello"},
		{"", 2, "  "},
		{"héllo", 7, "héllo  "}, // runes, not bytes
	}

	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q; want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
