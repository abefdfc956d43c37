package personnel

import "time"

// Employee is the active appointment of a Personnel. It exists only
// while the person is active; at most one row per personnel.
type Employee struct {
	id                    int64
	personnelID           int64
	rankID                int64
	subdivisionID         int64
	positionSubdivisionID int64
	assignedDate          time.Time
	lastUpdated           time.Time
}

func NewEmployee(personnelID, rankID, subdivisionID, positionSubdivisionID int64, assignedDate time.Time) Employee {
	return Employee{
		personnelID:           personnelID,
		rankID:                rankID,
		subdivisionID:         subdivisionID,
		positionSubdivisionID: positionSubdivisionID,
		assignedDate:          assignedDate,
	}
}

func HydrateEmployee(
	id int64,
	personnelID int64,
	rankID int64,
	subdivisionID int64,
	positionSubdivisionID int64,
	assignedDate time.Time,
	lastUpdated time.Time,
) Employee {
	return Employee{
		id:                    id,
		personnelID:           personnelID,
		rankID:                rankID,
		subdivisionID:         subdivisionID,
		positionSubdivisionID: positionSubdivisionID,
		assignedDate:          assignedDate,
		lastUpdated:           lastUpdated,
	}
}

func (e Employee) ID() int64                    { return e.id }
func (e Employee) PersonnelID() int64           { return e.personnelID }
func (e Employee) RankID() int64                { return e.rankID }
func (e Employee) SubdivisionID() int64         { return e.subdivisionID }
func (e Employee) PositionSubdivisionID() int64 { return e.positionSubdivisionID }
func (e Employee) AssignedDate() time.Time      { return e.assignedDate }
func (e Employee) LastUpdated() time.Time       { return e.lastUpdated }
func (e Employee) IsZero() bool                 { return e.id == 0 && e.personnelID == 0 }

// Reassigned returns the appointment with the supplied assignments
// applied. A zero argument leaves that field unchanged.
func (e Employee) Reassigned(rankID, subdivisionID, positionSubdivisionID int64) Employee {
	out := e
	if rankID != 0 {
		out.rankID = rankID
	}
	if subdivisionID != 0 {
		out.subdivisionID = subdivisionID
	}
	if positionSubdivisionID != 0 {
		out.positionSubdivisionID = positionSubdivisionID
	}
	return out
}
