// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// EventKind represents the type of scheduler event
type EventKind int

const (
	EventIndexed EventKind = iota // graph built and validated
	EventPlaced                   // one task received its dates
	EventFailed                   // run aborted
	EventDone                     // every task placed
)

// Event is emitted on key steps of a scheduling run
type Event struct {
	Time              time.Time
	Kind              EventKind
	TaskID            TaskID
	EffectiveDuration int
	Start             time.Time
	End               time.Time
	Err               error
}

// EventHandler receives events synchronously, in emission order.
type EventHandler func(Event)

func (k EventKind) String() string {
	switch k {
	case EventIndexed:
		return "Indexed"
	case EventPlaced:
		return "Placed"
	case EventFailed:
		return "Failed"
	case EventDone:
		return "Done"
	default:
		return "Unknown"
	}
}
