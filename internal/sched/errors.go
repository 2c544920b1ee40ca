package sched

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reasons a duration is refused, carried in InvalidInputError.Err.
var (
	ErrNegativeDuration = errors.New("duration must not be negative")
	ErrDurationTooLong  = errors.New("duration exceeds the limit")
)

// DuplicateTaskError is returned when two tasks in one list share an id.
type DuplicateTaskError struct {
	ID TaskID
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate task id detected: %d", e.ID)
}

// UnknownTaskError is returned when an id does not resolve to a task in the graph.
type UnknownTaskError struct {
	ID TaskID
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task id: %d", e.ID)
}

// CyclicDependencyError is returned when the dependency chain of a task
// leads back to itself, or grows beyond the configured depth bound.
type CyclicDependencyError struct {
	Path          []TaskID // in dependency order, first and last id are equal for a real cycle
	DepthExceeded bool
	MaxDepth      int
}

func (e *CyclicDependencyError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.Itoa(int(id))
	}
	chain := strings.Join(parts, " -> ")
	if e.DepthExceeded {
		return fmt.Sprintf("dependency chain exceeds maximum depth of %d: %s", e.MaxDepth, chain)
	}
	return "dependency cycle detected: " + chain
}

// InvalidInputError covers values that never make a valid task: unparsable
// numbers, negative or oversized durations and self dependencies.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error { return e.Err }
