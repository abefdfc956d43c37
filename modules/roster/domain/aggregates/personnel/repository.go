package personnel

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
)

var (
	ErrNotFound         = gerrors.New("personnel not found")
	ErrEmployeeNotFound = gerrors.New("employee not found")
	// ErrStaleWrite signals that the row changed since it was read and
	// the optimistic update matched zero rows.
	ErrStaleWrite = gerrors.New("personnel record changed concurrently")
)

// Summary is the denormalized read model over Personnel, Employee and
// the catalog tables. Catalog fields are empty for dismissed records.
type Summary struct {
	PersonnelID     int64
	DiscordID       int64
	FirstName       string
	LastName        string
	Static          string
	Status          Status
	Rank            string
	RankLevel       int
	Subdivision     string
	Position        string
	JoinDate        time.Time
	DismissalDate   time.Time
	DismissalReason string
	LastUpdated     time.Time
}

func (s Summary) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (Personnel, error)
	GetByDiscordID(ctx context.Context, discordID int64) (Personnel, error)
	// Upsert creates the personnel row or, when the discord id is
	// already known, resets it for re-hire. Dismissal fields are
	// cleared either way.
	Upsert(ctx context.Context, p Personnel) (Personnel, error)
	// MarkDismissed flips the record to its dismissed state. The
	// update is optimistic: expected must match last_updated or
	// ErrStaleWrite is returned.
	MarkDismissed(ctx context.Context, id int64, dismissalDate time.Time, reason string, expected time.Time) (Personnel, error)

	ActiveEmployee(ctx context.Context, personnelID int64) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	// UpdateEmployee applies the appointment optimistically; expected
	// must match the row's last_updated or ErrStaleWrite is returned.
	UpdateEmployee(ctx context.Context, e Employee, expected time.Time) (Employee, error)
	DeleteEmployee(ctx context.Context, personnelID int64) error

	GetSummaryByID(ctx context.Context, id int64) (Summary, error)
	GetSummaryByDiscordID(ctx context.Context, discordID int64) (Summary, error)
	// ListSummaries is the bulk preload contract: the full join as one
	// scan, used once at startup to populate the read cache.
	ListSummaries(ctx context.Context) ([]Summary, error)
}
