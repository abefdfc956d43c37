// Package blacklist models restriction records. At most one active
// entry per personnel exists at a time.
package blacklist

import "time"

// AutoReason marks entries created by the tenure policy.
const AutoReason = "auto: insufficient tenure"

type Entry struct {
	id          int64
	personnelID int64
	reason      string
	startDate   time.Time
	endDate     time.Time
	isActive    bool
	addedBy     int64
}

// NewAuto builds the policy-created entry for a short-tenure
// dismissal. It has no end date; a domain owner lifts it manually.
func NewAuto(personnelID int64, startDate time.Time) Entry {
	return Entry{
		personnelID: personnelID,
		reason:      AutoReason,
		startDate:   startDate,
		isActive:    true,
	}
}

func NewManual(personnelID int64, reason string, startDate, endDate time.Time, addedBy int64) Entry {
	return Entry{
		personnelID: personnelID,
		reason:      reason,
		startDate:   startDate,
		endDate:     endDate,
		isActive:    true,
		addedBy:     addedBy,
	}
}

func Hydrate(
	id int64,
	personnelID int64,
	reason string,
	startDate time.Time,
	endDate time.Time,
	isActive bool,
	addedBy int64,
) Entry {
	return Entry{
		id:          id,
		personnelID: personnelID,
		reason:      reason,
		startDate:   startDate,
		endDate:     endDate,
		isActive:    isActive,
		addedBy:     addedBy,
	}
}

func (e Entry) ID() int64            { return e.id }
func (e Entry) PersonnelID() int64   { return e.personnelID }
func (e Entry) Reason() string       { return e.reason }
func (e Entry) StartDate() time.Time { return e.startDate }
func (e Entry) EndDate() time.Time   { return e.endDate }
func (e Entry) IsActive() bool       { return e.isActive }
func (e Entry) AddedBy() int64       { return e.addedBy }
func (e Entry) IsZero() bool         { return e.id == 0 && e.personnelID == 0 }
