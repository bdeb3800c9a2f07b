package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrForbidden = errors.New("role cannot close compliance tasks")
)

type InvalidStatusError struct {
	From string
	To   string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("task cannot move from %s to %s", e.From, e.To)
}
