// Package duration computes elapsed shift time between two HH:MM clock readings.
// An end reading earlier than the start is taken to fall on the next day.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid clock time")

// Parse converts "HH:MM" to minutes since midnight.
func Parse(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || hh == "" || mm == "" || len(mm) != 2 || len(hh) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return h*60 + m, nil
}

// Elapsed returns the minutes from start to end. Equal readings give 0.
func Elapsed(start, end string) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s, nil
}

// Format renders minutes as "<H>h <M>m".
func Format(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Text is the display string stored alongside an entry.
func Text(start, end string) (string, error) {
	mins, err := Elapsed(start, end)
	if err != nil {
		return "", err
	}
	return Format(mins), nil
}

// Hours is the elapsed time as fractional hours, used for charts and averages.
func Hours(start, end string) (float64, error) {
	mins, err := Elapsed(start, end)
	if err != nil {
		return 0, err
	}
	return float64(mins) / 60, nil
}
