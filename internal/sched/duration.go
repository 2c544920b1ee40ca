package sched

import (
	"fmt"
	"math"
	"strconv"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// DefaultMaxDepth bounds the length of a dependency chain.
const DefaultMaxDepth = 1024

// durationWalker computes effective durations for one graph. The memo is only
// valid for the lifetime of a single run, since the graph never changes.
type durationWalker struct {
	graph    *TaskGraph
	maxDepth int
	memo     map[TaskID]int
	via      map[TaskID]TaskID  // dependency that produced the maximum
	onPath   *linkedhashset.Set // ids currently being resolved, in visit order
}

func newDurationWalker(g *TaskGraph, maxDepth int) *durationWalker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &durationWalker{
		graph:    g,
		maxDepth: maxDepth,
		memo:     make(map[TaskID]int),
		via:      make(map[TaskID]TaskID),
		onPath:   linkedhashset.New(),
	}
}

// EffectiveDuration returns the number of days from the anchor until the task
// can finish: its own duration plus the longest chain of dependencies behind it.
func (g *TaskGraph) EffectiveDuration(id TaskID) (int, error) {
	return newDurationWalker(g, DefaultMaxDepth).effective(id)
}

// CriticalChain returns the dependency chain that determines the effective
// duration of id, starting from a task without dependencies and ending at id.
// When two dependencies tie, the one listed first wins.
func (g *TaskGraph) CriticalChain(id TaskID) ([]TaskID, error) {
	w := newDurationWalker(g, DefaultMaxDepth)
	if _, err := w.effective(id); err != nil {
		return nil, err
	}
	return w.chain(id), nil
}

func (w *durationWalker) effective(id TaskID) (int, error) {
	if d, ok := w.memo[id]; ok {
		return d, nil
	}

	t, err := w.graph.Lookup(id)
	if err != nil {
		return 0, err
	}

	// 1) base case: nothing to wait for
	if !t.HasDependencies() {
		w.memo[id] = t.Duration
		return t.Duration, nil
	}

	// 2) guard the active path before recursing
	if w.onPath.Contains(id) {
		return 0, &CyclicDependencyError{Path: w.cycleFrom(id)}
	}
	if w.onPath.Size() >= w.maxDepth {
		return 0, &CyclicDependencyError{
			Path:          w.path(id),
			DepthExceeded: true,
			MaxDepth:      w.maxDepth,
		}
	}
	w.onPath.Add(id)
	defer w.onPath.Remove(id)

	// 3) longest chain among the dependencies
	best := -1
	for _, dep := range t.Dependencies {
		d, err := w.effective(dep)
		if err != nil {
			return 0, err
		}
		if t.Duration > 0 && d > math.MaxInt-t.Duration {
			return 0, &InvalidInputError{
				Field:  "duration",
				Value:  strconv.Itoa(t.Duration),
				Reason: fmt.Sprintf("effective duration of task %d overflows after dependency %d", id, dep),
				Err:    ErrDurationTooLong,
			}
		}
		if candidate := t.Duration + d; candidate > best {
			best = candidate
			w.via[id] = dep
		}
	}

	w.memo[id] = best
	return best, nil
}

// chain follows the recorded maxima back to a task without dependencies.
// Only valid after effective(id) succeeded.
func (w *durationWalker) chain(id TaskID) []TaskID {
	rev := []TaskID{id}
	for {
		dep, ok := w.via[id]
		if !ok {
			break
		}
		rev = append(rev, dep)
		id = dep
	}
	out := make([]TaskID, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// path returns the active path followed by next.
func (w *durationWalker) path(next TaskID) []TaskID {
	values := w.onPath.Values()
	out := make([]TaskID, 0, len(values)+1)
	for _, v := range values {
		out = append(out, v.(TaskID))
	}
	return append(out, next)
}

// cycleFrom trims the active path down to the loop that re-enters id.
func (w *durationWalker) cycleFrom(id TaskID) []TaskID {
	full := w.path(id)
	for i, v := range full {
		if v == id {
			return full[i:]
		}
	}
	return full
}
