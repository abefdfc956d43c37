package services

import "time"

// Decision is the outcome of one blacklist policy evaluation.
type Decision int

const (
	// DecisionNone: tenure meets the threshold, nothing to do.
	DecisionNone Decision = iota
	// DecisionCreate: tenure is below the threshold and no active
	// entry exists, so one must be created.
	DecisionCreate
	// DecisionAlreadyActive: an active entry already covers this
	// personnel; re-running the evaluator must not add another.
	DecisionAlreadyActive
)

// Decide is the pure blacklist policy: dismissals with tenure under
// thresholdDays yield an automatic entry unless one is already active.
func Decide(joinDate, dismissalDate time.Time, thresholdDays int, hasActiveEntry bool) Decision {
	if thresholdDays <= 0 {
		return DecisionNone
	}
	tenure := dismissalDate.Sub(joinDate)
	if tenure >= time.Duration(thresholdDays)*24*time.Hour {
		return DecisionNone
	}
	if hasActiveEntry {
		return DecisionAlreadyActive
	}
	return DecisionCreate
}
