package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services. Controllers branch on these with
// errors.Is to pick a status code; anything else is a persistence failure and
// is reported generically.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrEmptyTest         = errors.New("test has no questions")
	ErrNoAnswersSelected = errors.New("no answers selected")
	ErrAlreadyCompleted  = errors.New("attempt already completed")
)

// AlreadyCompletedError carries the id of the finalized attempt so the client
// can be pointed at the existing result instead of re-scoring.
type AlreadyCompletedError struct {
	ResultID uint
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("attempt %d already completed", e.ResultID)
}

func (e *AlreadyCompletedError) Is(target error) bool {
	return target == ErrAlreadyCompleted
}
