// Package stats derives the dashboard view of COB entries: calendar ordering,
// inclusive date-range filtering and duration aggregates. Aggregates are
// computed from start and end times, never from the stored duration text.
package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"cob-tracker/internal/duration"
	"cob-tracker/internal/model"
)

// BoundLayout is the form of the from/to query parameters.
const BoundLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate reads an entry date in DD/MM/YYYY form. Out-of-range days roll
// over the way calendar arithmetic does (31/02 is 3 March).
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		n[i] = v
	}
	return time.Date(n[2], time.Month(n[1]), n[0], 0, 0, 0, 0, time.UTC), nil
}

// Range bounds a filter. A zero bound is open.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseRange reads optional YYYY-MM-DD bounds.
func ParseRange(from, to string) (Range, error) {
	var r Range
	var err error
	if from != "" {
		if r.From, err = time.Parse(BoundLayout, from); err != nil {
			return r, fmt.Errorf("%w: from %q", ErrInvalidDate, from)
		}
	}
	if to != "" {
		if r.To, err = time.Parse(BoundLayout, to); err != nil {
			return r, fmt.Errorf("%w: to %q", ErrInvalidDate, to)
		}
	}
	return r, nil
}

func (r Range) Open() bool { return r.From.IsZero() && r.To.IsZero() }

func (r Range) contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// SortByDate orders entries by calendar date, oldest first. Entries with an
// unreadable date keep their relative order at the end.
func SortByDate(cobs []model.Cob) []model.Cob {
	out := slices.Clone(cobs)
	slices.SortStableFunc(out, func(a, b model.Cob) int {
		da, errA := ParseDate(a.Date)
		db, errB := ParseDate(b.Date)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return da.Compare(db)
	})
	return out
}

// Filter keeps entries whose date falls inside r, bounds inclusive. With any
// bound set, entries with an unreadable date are dropped.
func Filter(cobs []model.Cob, r Range) []model.Cob {
	if r.Open() {
		return slices.Clone(cobs)
	}
	out := make([]model.Cob, 0, len(cobs))
	for _, c := range cobs {
		d, err := ParseDate(c.Date)
		if err != nil {
			continue
		}
		if r.contains(d) {
			out = append(out, c)
		}
	}
	return out
}

// Point is one chart sample. EndHours exceeds 24 for overnight shifts.
type Point struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartHours    float64 `json:"startHours"`
	EndHours      float64 `json:"endHours"`
	DurationHours float64 `json:"durationHours"`
}

type Summary struct {
	Count    int        `json:"count"`
	AvgHours float64    `json:"avgHours"`
	MinHours float64    `json:"minHours"`
	MaxHours float64    `json:"maxHours"`
	Latest   *model.Cob `json:"latest"`
	Points   []Point    `json:"points"`
}

// Summarize aggregates already ordered and filtered entries. Entries with
// unreadable times count toward Count but not toward the duration figures.
func Summarize(cobs []model.Cob) Summary {
	s := Summary{Count: len(cobs), Points: []Point{}}
	if len(cobs) == 0 {
		return s
	}
	latest := cobs[len(cobs)-1]
	s.Latest = &latest

	total := 0.0
	s.MinHours = math.Inf(1)
	s.MaxHours = math.Inf(-1)
	for _, c := range cobs {
		p, ok := point(c)
		if !ok {
			continue
		}
		s.Points = append(s.Points, p)
		total += p.DurationHours
		s.MinHours = math.Min(s.MinHours, p.DurationHours)
		s.MaxHours = math.Max(s.MaxHours, p.DurationHours)
	}
	if len(s.Points) == 0 {
		s.MinHours, s.MaxHours = 0, 0
		return s
	}
	s.AvgHours = round2(total / float64(len(s.Points)))
	s.MinHours = round2(s.MinHours)
	s.MaxHours = round2(s.MaxHours)
	return s
}

// Dashboard orders, filters and summarizes in one step.
func Dashboard(cobs []model.Cob, r Range) ([]model.Cob, Summary) {
	filtered := Filter(SortByDate(cobs), r)
	return filtered, Summarize(filtered)
}

func point(c model.Cob) (Point, bool) {
	start, err := duration.Parse(c.StartTime)
	if err != nil {
		return Point{}, false
	}
	mins, err := duration.Elapsed(c.StartTime, c.EndTime)
	if err != nil {
		return Point{}, false
	}
	sh := float64(start) / 60
	dh := float64(mins) / 60
	return Point{
		ID:            c.ID,
		Date:          c.Date,
		StartHours:    sh,
		EndHours:      sh + dh,
		DurationHours: dh,
	}, true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
