package blacklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAuto(t *testing.T) {
	start := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	e := NewAuto(42, start)

	require.Equal(t, int64(42), e.PersonnelID())
	require.Equal(t, AutoReason, e.Reason())
	require.Equal(t, start, e.StartDate())
	require.True(t, e.EndDate().IsZero(), "automatic entries are open-ended")
	require.True(t, e.IsActive())
	require.Zero(t, e.AddedBy())
}

func TestNewManual(t *testing.T) {
	start := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	e := NewManual(42, "misconduct", start, end, 900)

	require.Equal(t, "misconduct", e.Reason())
	require.Equal(t, end, e.EndDate())
	require.True(t, e.IsActive())
	require.Equal(t, int64(900), e.AddedBy())
}
