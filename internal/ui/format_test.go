package ui

import (
	"testing"
	"time"
)

func TestTruncateText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays", "hello", 50, "hello"},
		{"exact stays", "hello", 5, "hello"},
		{"long truncates", "hello world", 5, "hello..."},
		{"zero max is untouched", "hello", 0, "hello"},
	}
	for _, tc := range cases {
		if got := TruncateText(tc.in, tc.max); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "30 seconds ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-49 * time.Hour), "2 days ago"},
	}
	for _, tc := range cases {
		if got := RelativeTime(tc.t); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"ada@example.com", "a.b@c.io"}
	invalid := []string{"", "ada", "ada@", "@example.com", "a b@example.com", "ada@example"}

	for _, email := range valid {
		if !emailPattern.MatchString(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if emailPattern.MatchString(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}
