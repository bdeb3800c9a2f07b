package rat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("processing activity not found")
	// ErrConflict is the optimistic-concurrency failure: the record changed
	// since the caller loaded it. Recoverable; re-fetch and retry.
	ErrConflict = errors.New("processing activity was modified concurrently")
	// ErrTasksOpen blocks certification while required tasks are unfinished.
	ErrTasksOpen = errors.New("open compliance tasks prevent certification")
)

// InvalidTransitionError reports a lifecycle move outside the transition
// table, carrying both states so the caller can correct.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every offending field so the caller can fix all of
// them in one round trip.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, issue.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}
