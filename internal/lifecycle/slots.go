package lifecycle

import (
	"sort"

	"github.com/cristianoliveira/bufferbell/internal/ports"
)

// SlotID identifies a tracked alert. Ids increase monotonically and are never reused.
type SlotID uint64

// State is the lifecycle state of one alert.
type State int

const (
	StateCreated State = iota
	StateShown
	StateExpired
	StateClicked
	StateCancelled
	StateClosed
	StateFailed
)

var stateNames = map[State]string{
	StateCreated:   "created",
	StateShown:     "shown",
	StateExpired:   "expired",
	StateClicked:   "clicked",
	StateCancelled: "cancelled",
	StateClosed:    "closed",
	StateFailed:    "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s >= StateExpired
}

// Reason returns the finish reason for a terminal state.
func (s State) Reason() Reason {
	switch s {
	case StateExpired:
		return ReasonExpired
	case StateClicked:
		return ReasonClicked
	case StateCancelled:
		return ReasonCancelled
	case StateFailed:
		return ReasonFailed
	default:
		return ReasonClosed
	}
}

// Reason explains why an alert left the slot table.
type Reason string

const (
	ReasonExpired   Reason = "expired"
	ReasonClicked   Reason = "clicked"
	ReasonCancelled Reason = "cancelled"
	// ReasonClosed means the platform closed the alert on its own.
	ReasonClosed Reason = "closed"
	// ReasonFailed means the platform refused to create the alert.
	ReasonFailed Reason = "failed"
)

// State returns the terminal state matching the reason.
func (r Reason) State() State {
	switch r {
	case ReasonExpired:
		return StateExpired
	case ReasonClicked:
		return StateClicked
	case ReasonCancelled:
		return StateCancelled
	case ReasonFailed:
		return StateFailed
	default:
		return StateClosed
	}
}

// entry is one tracked alert. bufferID is a weak reference used only on click.
type entry struct {
	slot     SlotID
	bufferID string
	alert    ports.Alert
	timer    Timer
	state    State
}

// slotTable maps slot ids to entries. Removal never renumbers other slots.
type slotTable struct {
	next    SlotID
	entries map[SlotID]*entry
}

func newSlotTable() *slotTable {
	return &slotTable{entries: make(map[SlotID]*entry)}
}

func (t *slotTable) add(bufferID string) *entry {
	e := &entry{slot: t.next, bufferID: bufferID, state: StateCreated}
	t.next++
	t.entries[e.slot] = e
	return e
}

func (t *slotTable) get(slot SlotID) (*entry, bool) {
	e, ok := t.entries[slot]
	return e, ok
}

func (t *slotTable) remove(slot SlotID) (*entry, bool) {
	e, ok := t.entries[slot]
	if ok {
		delete(t.entries, slot)
	}
	return e, ok
}

// popNewest removes and returns the most recently created entry.
func (t *slotTable) popNewest() (*entry, bool) {
	var newest *entry
	for _, e := range t.entries {
		if newest == nil || e.slot > newest.slot {
			newest = e
		}
	}
	if newest == nil {
		return nil, false
	}
	delete(t.entries, newest.slot)
	return newest, true
}

func (t *slotTable) len() int {
	return len(t.entries)
}

func (t *slotTable) ids() []SlotID {
	ids := make([]SlotID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
