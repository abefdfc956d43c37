package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
)

func TestSummaryDiff_Identical(t *testing.T) {
	s := personnel.Summary{
		FirstName: "John", LastName: "Doe", Static: "12-345",
		Status: personnel.StatusActive, Rank: "Private",
		JoinDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.True(t, summaryDiff(s, s).IsEmpty())
}

func TestSummaryDiff_Hire(t *testing.T) {
	prev := personnel.Summary{DiscordID: 100, Status: personnel.StatusUnknown}
	next := personnel.Summary{
		DiscordID: 100, FirstName: "John", Static: "12-345",
		Status: personnel.StatusActive, Rank: "Private", Subdivision: "Operations",
		Position: "Operative", JoinDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	d := summaryDiff(prev, next)
	require.Equal(t, history.Change{Previous: "unknown", New: "active"}, d["status"])
	require.Equal(t, history.Change{Previous: nil, New: "Private"}, d["rank"])
	require.Equal(t, history.Change{Previous: nil, New: "2025-03-01"}, d["join_date"])
	require.NotContains(t, d, "last_name", "unset fields on both sides never appear")
	require.NotContains(t, d, "dismissal_date")
}

func TestSummaryDiff_Dismissal(t *testing.T) {
	prev := personnel.Summary{
		FirstName: "John", Status: personnel.StatusActive,
		Rank: "Sergeant", Subdivision: "Operations", Position: "Operative",
	}
	next := personnel.Summary{
		FirstName: "John", Status: personnel.StatusDismissed,
		DismissalDate:   time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		DismissalReason: "unfit",
	}

	d := summaryDiff(prev, next)
	require.Equal(t, history.Change{Previous: "active", New: "dismissed"}, d["status"])
	require.Equal(t, history.Change{Previous: "Sergeant", New: nil}, d["rank"])
	require.Equal(t, history.Change{Previous: nil, New: "2025-03-04"}, d["dismissal_date"])
	require.Equal(t, history.Change{Previous: nil, New: "unfit"}, d["dismissal_reason"])
	require.NotContains(t, d, "first_name")
}

func TestSummaryDiff_TransferTouchesOnlyAppointment(t *testing.T) {
	prev := personnel.Summary{
		FirstName: "John", Status: personnel.StatusActive,
		Rank: "Private", Subdivision: "Operations", Position: "Operative",
	}
	next := prev
	next.Rank = "Sergeant"

	d := summaryDiff(prev, next)
	require.Len(t, d, 1)
	require.Equal(t, history.Change{Previous: "Private", New: "Sergeant"}, d["rank"])
}
