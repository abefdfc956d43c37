// Package history models the append-only audit trail. Entries are
// immutable once committed; no update or delete surface exists.
package history

import "time"

// Action is the closed set of audited transitions.
type Action string

const (
	ActionHired       Action = "hired"
	ActionTransferred Action = "transferred"
	ActionDismissed   Action = "dismissed"
	ActionBlacklisted Action = "blacklisted"
)

func (a Action) Valid() bool {
	switch a {
	case ActionHired, ActionTransferred, ActionDismissed, ActionBlacklisted:
		return true
	}
	return false
}

// Change is one field's before/after pair.
type Change struct {
	Previous any `json:"previous"`
	New      any `json:"new"`
}

// Diff maps changed field names to their before/after pairs. Only
// fields that actually changed appear; unchanged fields are omitted so
// the payload stays proportional to the change.
type Diff map[string]Change

func (d Diff) IsEmpty() bool { return len(d) == 0 }

type Entry struct {
	id          int64
	personnelID int64
	action      Action
	performedBy int64
	details     string
	changes     Diff
	actionDate  time.Time
}

func NewEntry(personnelID int64, action Action, performedBy int64, details string, changes Diff) Entry {
	return Entry{
		personnelID: personnelID,
		action:      action,
		performedBy: performedBy,
		details:     details,
		changes:     changes,
	}
}

func HydrateEntry(
	id int64,
	personnelID int64,
	action Action,
	performedBy int64,
	details string,
	changes Diff,
	actionDate time.Time,
) Entry {
	return Entry{
		id:          id,
		personnelID: personnelID,
		action:      action,
		performedBy: performedBy,
		details:     details,
		changes:     changes,
		actionDate:  actionDate,
	}
}

func (e Entry) ID() int64             { return e.id }
func (e Entry) PersonnelID() int64    { return e.personnelID }
func (e Entry) Action() Action        { return e.action }
func (e Entry) PerformedBy() int64    { return e.performedBy }
func (e Entry) Details() string       { return e.details }
func (e Entry) Changes() Diff         { return e.changes }
func (e Entry) ActionDate() time.Time { return e.actionDate }
