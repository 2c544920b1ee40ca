// internal/sched/scheduler.go

package sched

import (
	"time"

	"github.com/charmbracelet/log"

	"projsched/internal/logging"
)

// Scheduler places tasks on the calendar as early as their dependencies allow.
// It keeps no state between runs: every call builds its own graph.
type Scheduler struct {
	clock       Clock        // source of the anchor when none is given
	maxDepth    int          // longest dependency chain accepted before giving up
	maxDuration int          // longest duration of a single task, in days
	logger      *log.Logger  // run-level info, per-task debug
	onEvent     EventHandler // optional observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used by Schedule.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithEventHandler registers an observer for scheduler events.
func WithEventHandler(h EventHandler) Option {
	return func(s *Scheduler) { s.onEvent = h }
}

// New creates a new Scheduler with the given configuration.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:       SystemClock{},
		maxDepth:    cfg.MaxDepth,
		maxDuration: cfg.MaxDuration,
		logger:      logging.Discard(),
	}
	if s.maxDepth <= 0 {
		s.maxDepth = DefaultMaxDepth
	}
	if s.maxDuration <= 0 || s.maxDuration > DefaultMaxDuration {
		s.maxDuration = DefaultMaxDuration
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxDuration returns the longest task duration the scheduler accepts.
func (s *Scheduler) MaxDuration() int {
	return s.maxDuration
}

// Plan is the outcome of one scheduling run.
type Plan struct {
	Anchor        time.Time
	Tasks         []*Task        // scheduled copies, in input order
	Effective     map[TaskID]int // effective duration per task
	TotalDuration int            // days from the anchor to the last finish
	Finish        time.Time
	CriticalChain []TaskID // chain ending at the task that finishes last
}

// Schedule places every task relative to the current instant of the
// scheduler's clock. The clock is read once.
func (s *Scheduler) Schedule(tasks []*Task) ([]*Task, error) {
	return s.ScheduleAt(tasks, s.clock.Now())
}

// ScheduleAt places every task relative to anchor and returns scheduled
// copies in input order. The input tasks are left untouched; on error no
// tasks are returned.
func (s *Scheduler) ScheduleAt(tasks []*Task, anchor time.Time) ([]*Task, error) {
	p, err := s.Plan(tasks, anchor)
	if err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// Plan schedules tasks relative to anchor and also reports the project
// totals and the critical chain.
func (s *Scheduler) Plan(tasks []*Task, anchor time.Time) (*Plan, error) {
	// 1) index and validate
	g, err := Build(tasks)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := g.ValidateWithin(s.maxDuration); err != nil {
		return nil, s.fail(err)
	}
	s.emit(Event{Kind: EventIndexed})
	s.logger.Info("scheduling", "tasks", g.Len(), "anchor", anchor.Format(AnchorLayout))

	plan := &Plan{
		Anchor:    anchor,
		Tasks:     make([]*Task, 0, len(tasks)),
		Effective: make(map[TaskID]int, g.Len()),
		Finish:    anchor,
	}
	if g.Len() == 0 {
		s.emit(Event{Kind: EventDone})
		return plan, nil
	}

	// 2) effective durations; one walker so shared dependencies are resolved once
	w := newDurationWalker(g, s.maxDepth)
	ids := g.IDs()
	last := ids[0]
	for _, id := range ids {
		d, err := w.effective(id)
		if err != nil {
			return nil, s.fail(err)
		}
		plan.Effective[id] = d
		// strictly greater keeps the lowest id on ties
		if d > plan.TotalDuration {
			plan.TotalDuration = d
			last = id
		}
	}
	plan.CriticalChain = w.chain(last)
	plan.Finish = anchor.AddDate(0, 0, plan.TotalDuration)

	// 3) dates, in the caller's order
	for _, in := range tasks {
		if in == nil {
			continue
		}
		t, _ := g.Lookup(in.ID)
		out := t.clone()
		place(out, anchor, plan.Effective[out.ID])
		plan.Tasks = append(plan.Tasks, out)

		s.emit(Event{
			Kind:              EventPlaced,
			TaskID:            out.ID,
			EffectiveDuration: plan.Effective[out.ID],
			Start:             out.ScheduleStart,
			End:               out.ScheduleEnd,
		})
		s.logger.Debug("placed task",
			"task_id", out.ID,
			"effective", plan.Effective[out.ID],
			"start", out.ScheduleStart.Format(AnchorLayout),
			"end", out.ScheduleEnd.Format(AnchorLayout),
		)
	}

	s.emit(Event{Kind: EventDone})
	s.logger.Info("scheduled", "tasks", len(plan.Tasks), "total_days", plan.TotalDuration)
	return plan, nil
}

// place assigns dates so the task finishes exactly effective days after the
// anchor, its own duration immediately preceding that point. For a task
// without dependencies effective equals its duration, so it starts on the anchor.
func place(t *Task, anchor time.Time, effective int) {
	t.scheduled = true
	if !t.HasDependencies() {
		t.ScheduleStart = anchor
		t.ScheduleEnd = anchor.AddDate(0, 0, t.Duration)
		return
	}
	t.ScheduleStart = anchor.AddDate(0, 0, effective-t.Duration)
	t.ScheduleEnd = t.ScheduleStart.AddDate(0, 0, t.Duration)
}

func (s *Scheduler) emit(ev Event) {
	if s.onEvent == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	s.onEvent(ev)
}

func (s *Scheduler) fail(err error) error {
	s.emit(Event{Kind: EventFailed, Err: err})
	s.logger.Error("scheduling failed", "err", err)
	return err
}
