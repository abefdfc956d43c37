package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rosterhq/roster/modules/roster/domain/entities/blacklist"
	"github.com/rosterhq/roster/pkg/composables"
)

const blacklistColumns = `
	id, personnel_id, reason, start_date, end_date, is_active, added_by`

type BlacklistRepository struct{}

func NewBlacklistRepository() blacklist.Repository {
	return &BlacklistRepository{}
}

func scanBlacklistEntry(row pgx.Row) (blacklist.Entry, error) {
	var (
		id          int64
		personnelID int64
		reason      string
		startDate   pgtype.Date
		endDate     pgtype.Date
		isActive    bool
		addedBy     pgtype.Int8
	)
	if err := row.Scan(&id, &personnelID, &reason, &startDate, &endDate, &isActive, &addedBy); err != nil {
		return blacklist.Entry{}, err
	}
	var by int64
	if addedBy.Valid {
		by = addedBy.Int64
	}
	return blacklist.Hydrate(
		id, personnelID, reason, fromPgDate(startDate), fromPgDate(endDate), isActive, by,
	), nil
}

func (r *BlacklistRepository) ActiveByPersonnel(ctx context.Context, personnelID int64) (blacklist.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return blacklist.Entry{}, err
	}

	e, err := scanBlacklistEntry(tx.QueryRow(ctx,
		`SELECT`+blacklistColumns+` FROM blacklist WHERE personnel_id=$1 AND is_active`, personnelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blacklist.Entry{}, blacklist.ErrNotFound
		}
		return blacklist.Entry{}, err
	}
	return e, nil
}

func (r *BlacklistRepository) ListByPersonnel(ctx context.Context, personnelID int64) ([]blacklist.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT`+blacklistColumns+` FROM blacklist WHERE personnel_id=$1 ORDER BY start_date, id`, personnelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blacklist.Entry
	for rows.Next() {
		e, err := scanBlacklistEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *BlacklistRepository) Create(ctx context.Context, e blacklist.Entry) (blacklist.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return blacklist.Entry{}, err
	}

	var addedBy pgtype.Int8
	if e.AddedBy() != 0 {
		addedBy = pgtype.Int8{Int64: e.AddedBy(), Valid: true}
	}

	row := tx.QueryRow(ctx, `
	INSERT INTO blacklist (personnel_id, reason, start_date, end_date, is_active, added_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING`+blacklistColumns,
		e.PersonnelID(), e.Reason(), pgDate(e.StartDate()), pgDate(e.EndDate()), e.IsActive(), addedBy,
	)

	out, err := scanBlacklistEntry(row)
	if err != nil {
		return blacklist.Entry{}, gerrors.Wrap(err, "failed to create blacklist entry")
	}
	return out, nil
}

func (r *BlacklistRepository) Deactivate(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
	UPDATE blacklist SET
		is_active = false,
		end_date = COALESCE(end_date, now()::date)
	WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return blacklist.ErrNotFound
	}
	return nil
}
