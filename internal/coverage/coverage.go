// Package coverage records which named conditions a verification run has
// driven the queue through.
//
// A Goal owns one or more bins. A bin is saturated the first time its
// condition is observed and stays saturated for the rest of the run. Goals
// are collected into named groups, one per queue side; each side's driver
// calls Tracker.Observe once per step with a Snapshot of that step's
// signals. Reads (Saturated, PercentSaturated) are safe from any goroutine.
package coverage

import (
	"sync"
	"sync/atomic"

	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
)

// Group names.
const (
	GroupWrite = "write"
	GroupRead  = "read"
)

// Goal names of the default goal set.
const (
	GoalWriteResetCollision = "write_reset_collision"
	GoalWriteWhileFull      = "write_while_full"
	GoalFullFlag            = "full_flag"
	GoalWriteReadFull       = "write_read_x_full"

	GoalReadResetCollision = "read_reset_collision"
	GoalReadRequest        = "read_request"
	GoalEmptyDrainRefill   = "empty_drain_refill"
	GoalReadEmptyDrain     = "read_x_empty_transition"
)

// Snapshot holds the signals of one step on one side.
type Snapshot struct {
	Side queue.Side

	Reset   bool
	Request bool // push on the producer side, pop on the consumer side

	// PeerRequest is the latest request seen on the other side.
	PeerRequest bool

	// FlagBefore is the full (producer) or empty (consumer) flag at the
	// time the request was made; Flag is the value latched by the step.
	FlagBefore bool
	Flag       bool
}

// Goal is a named set of bins.
type Goal struct {
	name  string
	hit   []atomic.Bool
	count atomic.Int32
	binOf func(Snapshot) int // -1 for no bin
}

func newGoal(name string, bins int, binOf func(Snapshot) int) *Goal {
	return &Goal{
		name:  name,
		hit:   make([]atomic.Bool, bins),
		binOf: binOf,
	}
}

// Condition creates a single-bin goal hit whenever pred holds.
func Condition(name string, pred func(Snapshot) bool) *Goal {
	return newGoal(name, 1, func(s Snapshot) int {
		if pred(s) {
			return 0
		}
		return -1
	})
}

// Values creates a goal with n bins; bin maps a snapshot to its bin index
// or to -1 when the snapshot falls in none.
func Values(name string, n int, bin func(Snapshot) int) *Goal {
	return newGoal(name, n, bin)
}

// Transition creates a single-bin goal hit when signal has taken the
// values in seq, in order, with repeats of one value collapsed.
func Transition(name string, signal func(Snapshot) bool, seq ...bool) *Goal {
	tr := newTracker(seq)
	return newGoal(name, 1, func(s Snapshot) int {
		if tr.next(signal(s)) {
			return 0
		}
		return -1
	})
}

// CrossTransition creates a goal with n bins crossing the completion of a
// transition with bin, evaluated on the completing step.
func CrossTransition(name string, signal func(Snapshot) bool, seq []bool, n int, bin func(Snapshot) int) *Goal {
	tr := newTracker(seq)
	return newGoal(name, n, func(s Snapshot) int {
		if tr.next(signal(s)) {
			return bin(s)
		}
		return -1
	})
}

// Name returns the goal name.
func (g *Goal) Name() string { return g.name }

// Bins returns the number of bins.
func (g *Goal) Bins() int { return len(g.hit) }

// Hits returns the number of saturated bins.
func (g *Goal) Hits() int { return int(g.count.Load()) }

// Saturated reports whether every bin has been hit.
func (g *Goal) Saturated() bool { return g.Hits() == g.Bins() }

func (g *Goal) sample(s Snapshot) {
	i := g.binOf(s)
	if i < 0 || i >= len(g.hit) {
		return
	}
	if !g.hit[i].Swap(true) {
		g.count.Add(1)
	}
}

// transitionTracker matches a sequence of distinct consecutive values.
type transitionTracker struct {
	seq     []bool
	matched int
	last    bool
	started bool
}

func newTracker(seq []bool) *transitionTracker {
	return &transitionTracker{seq: seq}
}

// next feeds one sample and reports whether it completed the sequence.
func (t *transitionTracker) next(v bool) bool {
	if len(t.seq) == 0 {
		return false
	}
	if t.started && v == t.last {
		return false
	}
	t.started = true
	t.last = v

	if v == t.seq[t.matched] {
		t.matched++
		if t.matched == len(t.seq) {
			t.restart(v)
			return true
		}
		return false
	}
	t.restart(v)
	return false
}

func (t *transitionTracker) restart(v bool) {
	t.matched = 0
	if v == t.seq[0] {
		t.matched = 1
	}
}

// Group is a named set of goals sampled by one side.
type Group struct {
	name  string
	side  queue.Side
	goals []*Goal

	mu sync.Mutex // serializes sampling of stateful goals
}

// NewGroup creates a group sampled from snapshots of side.
func NewGroup(name string, side queue.Side, goals ...*Goal) *Group {
	return &Group{name: name, side: side, goals: goals}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Goals returns the group's goals.
func (g *Group) Goals() []*Goal { return g.goals }

func (g *Group) observe(s Snapshot) {
	g.mu.Lock()
	for _, goal := range g.goals {
		goal.sample(s)
	}
	g.mu.Unlock()
}

// Percent returns the mean saturation of the group's goals, 0 to 100.
func (g *Group) Percent() float64 {
	if len(g.goals) == 0 {
		return 0
	}
	var sum float64
	for _, goal := range g.goals {
		sum += float64(goal.Hits()) / float64(goal.Bins())
	}
	return sum * 100 / float64(len(g.goals))
}

// Tracker maps group and goal names to saturation state.
type Tracker struct {
	groups  []*Group
	byGroup map[string]*Group
	byGoal  map[string]*Goal
}

// NewTracker creates a Tracker over the given groups. Goal names must be
// unique across groups.
func NewTracker(groups ...*Group) *Tracker {
	t := &Tracker{
		groups:  groups,
		byGroup: make(map[string]*Group, len(groups)),
		byGoal:  make(map[string]*Goal),
	}
	for _, g := range groups {
		t.byGroup[g.name] = g
		for _, goal := range g.goals {
			t.byGoal[goal.name] = goal
		}
	}
	return t
}

// Observe samples every group belonging to the snapshot's side.
func (t *Tracker) Observe(s Snapshot) {
	for _, g := range t.groups {
		if g.side == s.Side {
			g.observe(s)
		}
	}
}

// Saturated reports whether the named goal has hit all its bins.
// Unknown goals are never saturated.
func (t *Tracker) Saturated(goal string) bool {
	g, ok := t.byGoal[goal]
	return ok && g.Saturated()
}

// PercentSaturated returns the saturation of the named group, 0 to 100.
// Unknown groups report 0.
func (t *Tracker) PercentSaturated(group string) float64 {
	g, ok := t.byGroup[group]
	if !ok {
		return 0
	}
	return g.Percent()
}

// Groups returns the tracker's groups.
func (t *Tracker) Groups() []*Group {
	return t.groups
}
