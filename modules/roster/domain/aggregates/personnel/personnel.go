package personnel

import (
	"strings"
	"time"
)

type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusActive    Status = "active"
	StatusDismissed Status = "dismissed"
)

// Personnel is the durable identity record for an individual. Rows are
// never deleted; dismissal is a state transition.
type Personnel struct {
	id              int64
	discordID       int64
	firstName       string
	lastName        string
	static          string
	isDismissal     bool
	joinDate        time.Time
	dismissalDate   time.Time
	dismissalReason string
	lastUpdated     time.Time
}

func New(discordID int64, firstName, lastName, static string, joinDate time.Time) Personnel {
	return Personnel{
		discordID: discordID,
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		static:    static,
		joinDate:  joinDate,
	}
}

func Hydrate(
	id int64,
	discordID int64,
	firstName string,
	lastName string,
	static string,
	isDismissal bool,
	joinDate time.Time,
	dismissalDate time.Time,
	dismissalReason string,
	lastUpdated time.Time,
) Personnel {
	return Personnel{
		id:              id,
		discordID:       discordID,
		firstName:       firstName,
		lastName:        lastName,
		static:          static,
		isDismissal:     isDismissal,
		joinDate:        joinDate,
		dismissalDate:   dismissalDate,
		dismissalReason: dismissalReason,
		lastUpdated:     lastUpdated,
	}
}

func (p Personnel) ID() int64                { return p.id }
func (p Personnel) DiscordID() int64         { return p.discordID }
func (p Personnel) FirstName() string        { return p.firstName }
func (p Personnel) LastName() string         { return p.lastName }
func (p Personnel) Static() string           { return p.static }
func (p Personnel) IsDismissal() bool        { return p.isDismissal }
func (p Personnel) JoinDate() time.Time      { return p.joinDate }
func (p Personnel) DismissalDate() time.Time { return p.dismissalDate }
func (p Personnel) DismissalReason() string  { return p.dismissalReason }
func (p Personnel) LastUpdated() time.Time   { return p.lastUpdated }
func (p Personnel) IsZero() bool             { return p.id == 0 && p.discordID == 0 }

func (p Personnel) FullName() string {
	return strings.TrimSpace(p.firstName + " " + p.lastName)
}

func (p Personnel) Status() Status {
	switch {
	case p.IsZero():
		return StatusUnknown
	case p.isDismissal:
		return StatusDismissed
	default:
		return StatusActive
	}
}

// Rehired returns the record reset for a new appointment. Dismissal
// fields are cleared so a re-hire starts from a clean slate.
func (p Personnel) Rehired(firstName, lastName, static string, joinDate time.Time) Personnel {
	out := p
	out.firstName = strings.TrimSpace(firstName)
	out.lastName = strings.TrimSpace(lastName)
	out.static = static
	out.isDismissal = false
	out.joinDate = joinDate
	out.dismissalDate = time.Time{}
	out.dismissalReason = ""
	return out
}

// Dismissed returns the record in its post-dismissal state.
func (p Personnel) Dismissed(dismissalDate time.Time, reason string) Personnel {
	out := p
	out.isDismissal = true
	out.dismissalDate = dismissalDate
	out.dismissalReason = reason
	return out
}

// Tenure is the elapsed time between hire and dismissal.
func (p Personnel) Tenure(dismissalDate time.Time) time.Duration {
	return dismissalDate.Sub(p.joinDate)
}
