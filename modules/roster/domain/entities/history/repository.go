package history

import "context"

type Repository interface {
	// Append inserts one entry. Callers run it inside the same
	// transaction as the mutation it records.
	Append(ctx context.Context, e Entry) (Entry, error)
	// ListByPersonnel returns the full career of one personnel,
	// ordered by action date then id.
	ListByPersonnel(ctx context.Context, personnelID int64) ([]Entry, error)
	CountByPersonnel(ctx context.Context, personnelID int64) (int64, error)
}
