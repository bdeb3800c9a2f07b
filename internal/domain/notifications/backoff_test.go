package notifications

import (
	"testing"
	"time"
)

func TestNextDelayDoublesAndCaps(t *testing.T) {
	base := 30 * time.Second
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{4, 4 * time.Minute},
		{8, time.Hour},
		{20, time.Hour},
	}
	for _, tc := range cases {
		if got := NextDelay(base, tc.attempt); got != tc.want {
			t.Errorf("NextDelay(30s, %d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func TestNextDelayClampsAttempt(t *testing.T) {
	if got := NextDelay(30*time.Second, 0); got != 30*time.Second {
		t.Fatalf("attempt 0 should behave like attempt 1, got %s", got)
	}
}
