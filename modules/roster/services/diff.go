package services

import (
	"time"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
)

const dateLayout = "2006-01-02"

// summaryDiff computes the field-level before/after pairs between two
// read models of the same personnel. Only fields that changed appear.
func summaryDiff(prev, next personnel.Summary) history.Diff {
	d := history.Diff{}

	addString(d, "first_name", prev.FirstName, next.FirstName)
	addString(d, "last_name", prev.LastName, next.LastName)
	addString(d, "static", prev.Static, next.Static)
	addString(d, "status", string(prev.Status), string(next.Status))
	addString(d, "rank", prev.Rank, next.Rank)
	addString(d, "subdivision", prev.Subdivision, next.Subdivision)
	addString(d, "position", prev.Position, next.Position)
	addDate(d, "join_date", prev.JoinDate, next.JoinDate)
	addDate(d, "dismissal_date", prev.DismissalDate, next.DismissalDate)
	addString(d, "dismissal_reason", prev.DismissalReason, next.DismissalReason)

	return d
}

func addString(d history.Diff, field, prev, next string) {
	if prev == next {
		return
	}
	d[field] = history.Change{Previous: nullable(prev), New: nullable(next)}
}

func addDate(d history.Diff, field string, prev, next time.Time) {
	if prev.Equal(next) {
		return
	}
	d[field] = history.Change{Previous: nullableDate(prev), New: nullableDate(next)}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}
