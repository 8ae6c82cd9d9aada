package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAlreadyAuthenticated = errors.New("already signed in")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPending          = errors.New("task is still being saved")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrProfileMissing       = errors.New("failed to fetch user profile")
	ErrLoadingTimeout       = errors.New("session is still loading")
)

// ConfirmReopenPrompt is shown before a completed task goes back to the
// in-progress list.
const ConfirmReopenPrompt = "Move this task back to 'In Progress'?"

// ValidationError carries one message per invalid input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// validator collects field errors in the order they are checked.
type validator map[string]string

func (v validator) check(ok bool, field, msg string) {
	if _, seen := v[field]; seen || ok {
		return
	}
	v[field] = msg
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}
