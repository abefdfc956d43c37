package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
	"github.com/rosterhq/roster/pkg/composables"
)

var ErrUnknownAction = gerrors.New("unknown history action")

type HistoryRepository struct{}

func NewHistoryRepository() history.Repository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(ctx context.Context, e history.Entry) (history.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return history.Entry{}, err
	}

	if !e.Action().Valid() {
		return history.Entry{}, ErrUnknownAction
	}

	changesJSON, err := json.Marshal(e.Changes())
	if err != nil {
		return history.Entry{}, gerrors.Wrap(err, "failed to encode history changes")
	}

	var (
		id         int64
		actionDate time.Time
	)
	err = tx.QueryRow(ctx, `
	INSERT INTO history (personnel_id, action_id, performed_by, details, changes, action_date)
	SELECT $1, a.id, $3, $4, $5::jsonb, now()
	FROM actions a
	WHERE a.name = $2
	RETURNING id, action_date
	`,
		e.PersonnelID(), string(e.Action()), e.PerformedBy(), pgText(e.Details()), changesJSON,
	).Scan(&id, &actionDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return history.Entry{}, ErrUnknownAction
		}
		return history.Entry{}, gerrors.Wrap(err, "failed to append history")
	}

	return history.HydrateEntry(
		id, e.PersonnelID(), e.Action(), e.PerformedBy(), e.Details(), e.Changes(), actionDate,
	), nil
}

func (r *HistoryRepository) ListByPersonnel(ctx context.Context, personnelID int64) ([]history.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
	SELECT h.id, h.personnel_id, a.name, h.performed_by, h.details, h.changes, h.action_date
	FROM history h
	JOIN actions a ON a.id = h.action_id
	WHERE h.personnel_id = $1
	ORDER BY h.action_date, h.id
	`, personnelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []history.Entry
	for rows.Next() {
		var (
			id          int64
			pid         int64
			action      string
			performedBy int64
			details     pgtype.Text
			changesJSON []byte
			actionDate  time.Time
		)
		if err := rows.Scan(&id, &pid, &action, &performedBy, &details, &changesJSON, &actionDate); err != nil {
			return nil, err
		}

		var changes history.Diff
		if len(changesJSON) > 0 {
			if err := json.Unmarshal(changesJSON, &changes); err != nil {
				return nil, gerrors.Wrap(err, "failed to decode history changes")
			}
		}

		out = append(out, history.HydrateEntry(
			id, pid, history.Action(action), performedBy, fromPgText(details), changes, actionDate,
		))
	}
	return out, rows.Err()
}

func (r *HistoryRepository) CountByPersonnel(ctx context.Context, personnelID int64) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM history WHERE personnel_id=$1`, personnelID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
