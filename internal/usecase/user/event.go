package user

import domain "user-sync/internal/domain/user"

// Store operation names, used in events and logs.
const (
	OpFetch  = "fetch"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// EventType distinguishes the transitions a Store publishes.
type EventType int

const (
	// EventStarted is published when an operation begins and the store becomes loading.
	EventStarted EventType = iota + 1
	// EventSucceeded is published after a successful outcome has been reconciled.
	EventSucceeded
	// EventFailed is published when the remote call failed; the list is untouched.
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the store's observable state.
type Snapshot struct {
	Users   []domain.User
	Loading bool
}

// Event describes one state transition together with the state it produced.
type Event struct {
	Type     EventType
	Op       string
	Changed  bool  // the user list differs from before this transition
	Err      error // set for EventFailed
	Snapshot Snapshot
}

// Observer receives store events in the order they were applied.
// Observers run synchronously and must not call back into the Store,
// including Snapshot and unsubscribe; the event already carries the state.
type Observer func(Event)
