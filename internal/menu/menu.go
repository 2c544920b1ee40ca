// Package menu is the line-based interactive front end: it collects tasks
// from the user, validates them and prints the schedule.
package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"projsched/internal/sched"
)

// Session owns the task list between scheduling runs.
type Session struct {
	tasks      []*sched.Task
	scheduler  *sched.Scheduler
	dateLayout string
}

// NewSession creates an empty session scheduling with s.
func NewSession(s *sched.Scheduler, dateLayout string) *Session {
	if dateLayout == "" {
		dateLayout = sched.DefaultDateLayout
	}
	return &Session{scheduler: s, dateLayout: dateLayout}
}

// Load replaces the task list, validating every task the way AddTask would.
// On error the previous list is kept.
func (s *Session) Load(tasks []*sched.Task) error {
	g, err := sched.Build(tasks)
	if err != nil {
		return err
	}
	if err := g.ValidateWithin(s.scheduler.MaxDuration()); err != nil {
		return err
	}
	// keep the given order, not id order
	ordered := make([]*sched.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		c, _ := g.Lookup(t.ID)
		ordered = append(ordered, c)
	}
	s.tasks = ordered
	return nil
}

// AddTask parses and validates raw user input and appends the task.
// Checks run in this order: id, duplicate id, dependency syntax, self
// dependency, unknown dependency, duration. Nothing is added on error.
func (s *Session) AddTask(idText, depsText, durationText string) (*sched.Task, error) {
	id, g, err := s.checkID(idText)
	if err != nil {
		return nil, err
	}
	deps, err := checkDependencies(g, id, depsText)
	if err != nil {
		return nil, err
	}
	duration, err := s.parseDuration(durationText)
	if err != nil {
		return nil, err
	}
	return s.add(id, deps, duration)
}

// checkID parses a task id and rejects ids already in the list. The graph
// it returns is built fresh for this one validation.
func (s *Session) checkID(text string) (sched.TaskID, *sched.TaskGraph, error) {
	id, err := parseID("task id", text)
	if err != nil {
		return 0, nil, err
	}
	g, err := sched.Build(s.tasks)
	if err != nil {
		return 0, nil, err
	}
	if g.Contains(id) {
		return 0, nil, &sched.DuplicateTaskError{ID: id}
	}
	return id, g, nil
}

func (s *Session) add(id sched.TaskID, deps []sched.TaskID, duration int) (*sched.Task, error) {
	t, err := sched.NewTask(id, deps, duration)
	if err != nil {
		return nil, err
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// checkDependencies parses "1,3,7" and makes sure every id is known and
// none of them is the task itself. Empty input means no dependencies.
func checkDependencies(g *sched.TaskGraph, id sched.TaskID, text string) ([]sched.TaskID, error) {
	deps, err := parseDependencies(text)
	if err != nil {
		return nil, err
	}
	for _, dep := range deps {
		if dep == id {
			return nil, &sched.InvalidInputError{
				Field:  "dependencies",
				Value:  strconv.Itoa(int(dep)),
				Reason: "task cannot depend on itself",
			}
		}
	}
	for _, dep := range deps {
		if _, err := g.Lookup(dep); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// parseDuration accepts whole days between zero and the scheduler's limit.
func (s *Session) parseDuration(text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &sched.InvalidInputError{Field: "duration", Value: text, Err: err}
	}
	switch limit := s.scheduler.MaxDuration(); {
	case n < 0:
		return 0, &sched.InvalidInputError{Field: "duration", Value: text, Err: sched.ErrNegativeDuration}
	case n > limit:
		return 0, &sched.InvalidInputError{
			Field:  "duration",
			Value:  text,
			Reason: fmt.Sprintf("at most %d days", limit),
			Err:    sched.ErrDurationTooLong,
		}
	}
	return n, nil
}

// ScheduleAll schedules the current list. The session keeps its unscheduled
// tasks; the returned tasks are scheduled copies.
func (s *Session) ScheduleAll() ([]*sched.Task, error) {
	return s.scheduler.Schedule(s.tasks)
}

// Reset discards every task.
func (s *Session) Reset() {
	s.tasks = nil
}

// Tasks returns a snapshot of the task list.
func (s *Session) Tasks() []*sched.Task {
	return append([]*sched.Task(nil), s.tasks...)
}

// Len returns the number of tasks in the session.
func (s *Session) Len() int {
	return len(s.tasks)
}

func parseID(field, text string) (sched.TaskID, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &sched.InvalidInputError{Field: field, Value: text, Err: err}
	}
	return sched.TaskID(n), nil
}

func parseDependencies(text string) ([]sched.TaskID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	deps := make([]sched.TaskID, 0, len(parts))
	for _, p := range parts {
		id, err := parseID("dependency id", p)
		if err != nil {
			return nil, err
		}
		deps = append(deps, id)
	}
	return deps, nil
}

// describe turns an AddTask error into the message shown to the user.
func describe(err error) string {
	var (
		dup     *sched.DuplicateTaskError
		unknown *sched.UnknownTaskError
		invalid *sched.InvalidInputError
	)
	switch {
	case errors.As(err, &dup):
		return "Duplicate task ID found!"
	case errors.As(err, &unknown):
		return fmt.Sprintf("Unknown task ID dependency detected! (%d)", unknown.ID)
	case errors.As(err, &invalid) && invalid.Field == "dependencies":
		return "Task cannot depend on itself!"
	case errors.Is(err, sched.ErrNegativeDuration):
		return "Duration cannot be negative!"
	case errors.Is(err, sched.ErrDurationTooLong):
		return "Duration is too long!"
	default:
		return "Invalid input!"
	}
}
