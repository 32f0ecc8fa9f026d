package duration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"same day", "09:00", "17:30", "8h 30m"},
		{"overnight", "22:00", "02:00", "4h 0m"},
		{"equal times", "10:00", "10:00", "0h 0m"},
		{"one minute before midnight", "23:59", "00:00", "0h 1m"},
		{"almost a full day", "00:01", "00:00", "23h 59m"},
		{"single digit hour", "9:05", "10:10", "1h 5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextMatchesFormula(t *testing.T) {
	// sweep every 7 minutes to keep the grid small
	for s := 0; s < minutesPerDay; s += 7 {
		for e := 0; e < minutesPerDay; e += 7 {
			start := fmt.Sprintf("%02d:%02d", s/60, s%60)
			end := fmt.Sprintf("%02d:%02d", e/60, e%60)

			elapsed := e - s
			if e < s {
				elapsed += minutesPerDay
			}
			want := fmt.Sprintf("%dh %dm", elapsed/60, elapsed%60)

			got, err := Text(start, end)
			if err != nil {
				t.Fatalf("%s-%s: %v", start, end, err)
			}
			if got != want {
				t.Fatalf("%s-%s: got %q want %q", start, end, got, want)
			}
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "10", "24:00", "12:60", "ab:cd", "12:5", "-1:00", "123:00"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidClock)
		})
	}
}

func TestHours(t *testing.T) {
	h, err := Hours("22:30", "01:00")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, h, 1e-9)

	_, err = Hours("bad", "01:00")
	assert.Error(t, err)
}
