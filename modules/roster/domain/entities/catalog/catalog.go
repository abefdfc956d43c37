// Package catalog holds the rank/subdivision/position reference data
// personnel appointments point into.
package catalog

type Rank struct {
	ID           int64
	Name         string
	Level        int
	Abbreviation string
	RoleID       int64
}

type Subdivision struct {
	ID           int64
	Name         string
	Abbreviation string
	RoleID       int64
}

type Position struct {
	ID     int64
	Name   string
	RoleID int64
}

// PositionSubdivision registers a valid (position, subdivision)
// pairing. Appointments reference the pairing, not the position.
type PositionSubdivision struct {
	ID            int64
	PositionID    int64
	SubdivisionID int64
}
