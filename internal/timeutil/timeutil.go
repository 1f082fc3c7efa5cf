package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts Go durations plus whole days ("30d") and weeks ("2w").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration string")
	}
	if dur, err := time.ParseDuration(s); err == nil {
		return dur, nil
	}

	num, unit, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

// ParseRelativeTime resolves an absolute timestamp (RFC3339 or YYYY-MM-DD)
// or an offset from now such as "-1095d", "+2w" or "-18y". Years move the
// calendar date, so "-18y" on a leap day lands on March 1.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, now.Location()); err == nil {
		return t, nil
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return time.Time{}, fmt.Errorf("relative time must start with + or -: %s", s)
	}
	s = s[1:]

	if strings.HasSuffix(s, "y") {
		years, _, err := splitUnit(s)
		if err != nil {
			return time.Time{}, err
		}
		return now.AddDate(sign*int(years), 0, 0), nil
	}

	dur, err := ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(time.Duration(sign) * dur), nil
}

func splitUnit(s string) (int64, string, error) {
	if len(s) < 2 {
		return 0, "", fmt.Errorf("invalid duration format: %s", s)
	}
	numStr, unit := s[:len(s)-1], s[len(s)-1:]
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil || num < 0 {
		return 0, "", fmt.Errorf("invalid duration number: %s", numStr)
	}
	return num, unit, nil
}
