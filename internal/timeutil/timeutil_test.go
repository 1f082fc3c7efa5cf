package timeutil

import (
	"testing"
	"time"
)

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)

	cases := map[string]time.Time{
		"-30d":                 now.AddDate(0, 0, -30),
		"+2w":                  now.AddDate(0, 0, 14),
		"-36h":                 now.Add(-36 * time.Hour),
		"-18y":                 time.Date(2006, 3, 1, 12, 0, 0, 0, time.UTC),
		"2020-01-15":           time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		"2021-06-01T08:30:00Z": time.Date(2021, 6, 1, 8, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseRelativeTime(in, now)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}

	for _, bad := range []string{"", "30d", "-x", "-3q", "--3d", "-y"} {
		if _, err := ParseRelativeTime(bad, now); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
