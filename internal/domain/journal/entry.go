package journal

import "time"

// OutcomeOK is recorded for calls that completed without error.
const OutcomeOK = "ok"

// Entry records the outcome of one remote user service call.
type Entry struct {
	ID         int64
	Op         string // list, create, update, delete
	Method     string
	Path       string
	UserID     int64 // zero for list
	Outcome    string // OutcomeOK or an error kind name
	DurationMS float64
	RequestID  string
	CreatedAt  time.Time
}

// Failed reports whether the call ended in an error.
func (e Entry) Failed() bool {
	return e.Outcome != OutcomeOK
}
