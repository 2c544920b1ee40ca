package sched

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultDateLayout renders dates as day-month-year, e.g. 07-Mar-2026.
const DefaultDateLayout = "02-Jan-2006"

// DefaultMaxDuration is the longest duration, in days, a single task may have.
const DefaultMaxDuration = 36500

// TaskID uniquely identifies a task within one task graph.
type TaskID int

// Task represents one unit of work to be placed on the calendar.
type Task struct {
	ID           TaskID   `yaml:"id"`
	Dependencies []TaskID `yaml:"dependencies,omitempty"` // nil and empty both mean "no dependencies"
	Duration     int      `yaml:"duration"`               // whole days

	// filled in by the Scheduler, zero until then
	ScheduleStart time.Time `yaml:"-"`
	ScheduleEnd   time.Time `yaml:"-"`
	scheduled     bool      // a zero anchor is still a valid start
}

// NewTask creates an unscheduled task whose duration is at most
// DefaultMaxDuration days.
// NOTE: only the task's own fields are checked here. Whether its dependencies
// exist is a graph-level question, see TaskGraph.Validate.
func NewTask(id TaskID, dependencies []TaskID, duration int) (*Task, error) {
	if err := checkDuration(id, duration, DefaultMaxDuration); err != nil {
		return nil, err
	}
	for _, dep := range dependencies {
		if dep == id {
			return nil, &InvalidInputError{
				Field:  "dependencies",
				Value:  strconv.Itoa(int(dep)),
				Reason: "task cannot depend on itself",
			}
		}
	}

	var deps []TaskID
	if len(dependencies) > 0 {
		deps = append(deps, dependencies...)
	}
	return &Task{
		ID:           id,
		Dependencies: deps,
		Duration:     duration,
	}, nil
}

// HasDependencies reports whether the task must wait for any other task.
func (t *Task) HasDependencies() bool {
	return len(t.Dependencies) > 0
}

// Scheduled reports whether the Scheduler has assigned dates to the task.
func (t *Task) Scheduled() bool {
	return t.scheduled
}

// Format renders the task the way the menu prints a schedule.
func (t *Task) Format(layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	start, end := "-", "-"
	if t.Scheduled() {
		start = t.ScheduleStart.Format(layout)
		end = t.ScheduleEnd.Format(layout)
	}
	return fmt.Sprintf("Task %d: duration:%d start:%s end:%s", t.ID, t.Duration, start, end)
}

func (t *Task) String() string {
	return t.Format(DefaultDateLayout)
}

// checkDuration rejects negative durations and durations above limit.
func checkDuration(id TaskID, duration, limit int) error {
	switch {
	case duration < 0:
		return &InvalidInputError{
			Field:  "duration",
			Value:  strconv.Itoa(duration),
			Reason: fmt.Sprintf("task %d", id),
			Err:    ErrNegativeDuration,
		}
	case duration > limit:
		return &InvalidInputError{
			Field:  "duration",
			Value:  strconv.Itoa(duration),
			Reason: fmt.Sprintf("task %d is longer than %d days", id, limit),
			Err:    ErrDurationTooLong,
		}
	}
	return nil
}

// clone returns a deep copy so the graph never shares dependency slices with
// the caller.
func (t *Task) clone() *Task {
	c := *t
	if len(t.Dependencies) > 0 {
		c.Dependencies = append([]TaskID(nil), t.Dependencies...)
	} else {
		c.Dependencies = nil
	}
	return &c
}
