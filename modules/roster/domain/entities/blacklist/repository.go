package blacklist

import (
	"context"

	gerrors "github.com/go-faster/errors"
)

var ErrNotFound = gerrors.New("blacklist entry not found")

type Repository interface {
	// ActiveByPersonnel returns the single active entry or
	// ErrNotFound when none is active.
	ActiveByPersonnel(ctx context.Context, personnelID int64) (Entry, error)
	ListByPersonnel(ctx context.Context, personnelID int64) ([]Entry, error)
	Create(ctx context.Context, e Entry) (Entry, error)
	// Deactivate closes the entry, stamping end_date when it is unset.
	Deactivate(ctx context.Context, id int64) error
}
