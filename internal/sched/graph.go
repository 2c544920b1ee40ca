// internal/sched/graph.go

package sched

import (
	"fmt"
	"strconv"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// TaskGraph is the id-indexed set of tasks for one scheduling run.
// It is built fresh from a task list every time and never mutated afterwards.
type TaskGraph struct {
	tasks      *treemap.Map        // TaskID -> *Task, ascending by id
	dependents map[TaskID][]TaskID // reverse adjacency, dependency -> tasks waiting on it
}

// Build indexes tasks by id. It stops at the first repeated id and returns a
// DuplicateTaskError without a graph. Tasks are copied, so nothing the caller
// holds is modified by later scheduling.
func Build(tasks []*Task) (*TaskGraph, error) {
	index := treemap.NewWith(compareTaskIDs)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, dup := index.Get(t.ID); dup {
			return nil, &DuplicateTaskError{ID: t.ID}
		}
		index.Put(t.ID, t.clone())
	}

	g := &TaskGraph{
		tasks:      index,
		dependents: make(map[TaskID][]TaskID),
	}
	// tasks are visited in ascending id order so dependents come out sorted
	for _, t := range g.Tasks() {
		for _, dep := range t.Dependencies {
			waiting := g.dependents[dep]
			if n := len(waiting); n > 0 && waiting[n-1] == t.ID {
				continue // dependency listed twice
			}
			g.dependents[dep] = append(waiting, t.ID)
		}
	}
	return g, nil
}

// Lookup returns the task with the given id.
func (g *TaskGraph) Lookup(id TaskID) (*Task, error) {
	v, ok := g.tasks.Get(id)
	if !ok {
		return nil, &UnknownTaskError{ID: id}
	}
	return v.(*Task), nil
}

// Contains reports whether id is part of the graph.
func (g *TaskGraph) Contains(id TaskID) bool {
	_, ok := g.tasks.Get(id)
	return ok
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int {
	return g.tasks.Size()
}

// IDs returns every task id in ascending order.
func (g *TaskGraph) IDs() []TaskID {
	keys := g.tasks.Keys()
	ids := make([]TaskID, len(keys))
	for i, k := range keys {
		ids[i] = k.(TaskID)
	}
	return ids
}

// Tasks returns every task in ascending id order.
func (g *TaskGraph) Tasks() []*Task {
	values := g.tasks.Values()
	out := make([]*Task, len(values))
	for i, v := range values {
		out[i] = v.(*Task)
	}
	return out
}

// Validate checks the structural integrity of the graph: every dependency
// must resolve, no task may depend on itself and durations lie between zero
// and DefaultMaxDuration. The first problem found (in ascending id order) is
// returned.
func (g *TaskGraph) Validate() error {
	return g.ValidateWithin(DefaultMaxDuration)
}

// ValidateWithin is Validate with a caller-chosen duration limit.
func (g *TaskGraph) ValidateWithin(maxDuration int) error {
	for _, t := range g.Tasks() {
		if err := checkDuration(t.ID, t.Duration, maxDuration); err != nil {
			return err
		}
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				return &InvalidInputError{
					Field:  "dependencies",
					Value:  strconv.Itoa(int(dep)),
					Reason: fmt.Sprintf("task %d cannot depend on itself", t.ID),
				}
			}
			if !g.Contains(dep) {
				return fmt.Errorf("task %d: %w", t.ID, &UnknownTaskError{ID: dep})
			}
		}
	}
	return nil
}

// Roots returns the ids of tasks without dependencies.
func (g *TaskGraph) Roots() []TaskID {
	var roots []TaskID
	for _, t := range g.Tasks() {
		if !t.HasDependencies() {
			roots = append(roots, t.ID)
		}
	}
	return roots
}

// Leaves returns the ids of tasks nothing else depends on.
func (g *TaskGraph) Leaves() []TaskID {
	var leaves []TaskID
	for _, id := range g.IDs() {
		if len(g.dependents[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Dependents returns the ids of tasks that list id as a dependency, ascending.
func (g *TaskGraph) Dependents(id TaskID) []TaskID {
	return append([]TaskID(nil), g.dependents[id]...)
}

// compareTaskIDs orders the treemap by id.
func compareTaskIDs(a, b any) int {
	return utils.IntComparator(int(a.(TaskID)), int(b.(TaskID)))
}
