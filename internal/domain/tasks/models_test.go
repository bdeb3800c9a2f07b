package tasks

import "testing"

func TestStatusMoves(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusInReview, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusInReview, StatusPending, true},
		{StatusInReview, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInReview, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanMove(tc.from, tc.to); got != tc.want {
			t.Errorf("CanMove(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOpenStatuses(t *testing.T) {
	if !Open(StatusPending) || !Open(StatusInReview) {
		t.Fatal("pending and in_review tasks must count as open")
	}
	if Open(StatusCompleted) || Open(StatusCancelled) {
		t.Fatal("closed tasks must not count as open")
	}
}
