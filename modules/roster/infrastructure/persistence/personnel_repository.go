package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/pkg/composables"
	"github.com/rosterhq/roster/pkg/repo"
)

const personnelColumns = `
	id, discord_id, first_name, last_name, static,
	is_dismissal, join_date, dismissal_date, dismissal_reason, last_updated`

type PersonnelRepository struct{}

func NewPersonnelRepository() personnel.Repository {
	return &PersonnelRepository{}
}

func scanPersonnel(row pgx.Row) (personnel.Personnel, error) {
	var (
		id              int64
		discordID       int64
		firstName       string
		lastName        string
		static          string
		isDismissal     bool
		joinDate        pgtype.Date
		dismissalDate   pgtype.Date
		dismissalReason pgtype.Text
		lastUpdated     time.Time
	)
	if err := row.Scan(
		&id, &discordID, &firstName, &lastName, &static,
		&isDismissal, &joinDate, &dismissalDate, &dismissalReason, &lastUpdated,
	); err != nil {
		return personnel.Personnel{}, err
	}
	return personnel.Hydrate(
		id, discordID, firstName, lastName, static,
		isDismissal, fromPgDate(joinDate), fromPgDate(dismissalDate),
		fromPgText(dismissalReason), lastUpdated,
	), nil
}

func (r *PersonnelRepository) getBy(ctx context.Context, where string, arg any) (personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}

	p, err := scanPersonnel(tx.QueryRow(ctx, `SELECT`+personnelColumns+` FROM personnel WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Personnel{}, personnel.ErrNotFound
		}
		return personnel.Personnel{}, err
	}
	return p, nil
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id int64) (personnel.Personnel, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *PersonnelRepository) GetByDiscordID(ctx context.Context, discordID int64) (personnel.Personnel, error) {
	return r.getBy(ctx, `discord_id=$1`, discordID)
}

func (r *PersonnelRepository) Upsert(ctx context.Context, p personnel.Personnel) (personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}

	row := tx.QueryRow(ctx, `
	INSERT INTO personnel (discord_id, first_name, last_name, static, is_dismissal, join_date, last_updated)
	VALUES ($1, $2, $3, $4, false, $5, now())
	ON CONFLICT (discord_id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		static = EXCLUDED.static,
		is_dismissal = false,
		join_date = EXCLUDED.join_date,
		dismissal_date = NULL,
		dismissal_reason = NULL,
		last_updated = now()
	RETURNING`+personnelColumns,
		p.DiscordID(), p.FirstName(), p.LastName(), p.Static(), pgDate(p.JoinDate()),
	)

	out, err := scanPersonnel(row)
	if err != nil {
		return personnel.Personnel{}, gerrors.Wrap(err, "failed to upsert personnel")
	}
	return out, nil
}

func (r *PersonnelRepository) MarkDismissed(
	ctx context.Context,
	id int64,
	dismissalDate time.Time,
	reason string,
	expected time.Time,
) (personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Personnel{}, err
	}

	row := tx.QueryRow(ctx, `
	UPDATE personnel SET
		is_dismissal = true,
		dismissal_date = $2,
		dismissal_reason = $3,
		last_updated = now()
	WHERE id = $1 AND last_updated = $4
	RETURNING`+personnelColumns,
		id, pgDate(dismissalDate), pgText(reason), expected,
	)

	out, err := scanPersonnel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Personnel{}, personnel.ErrStaleWrite
		}
		return personnel.Personnel{}, err
	}
	return out, nil
}

const employeeColumns = `
	id, personnel_id, rank_id, subdivision_id, position_subdivision_id, assigned_date, last_updated`

func scanEmployee(row pgx.Row) (personnel.Employee, error) {
	var (
		id           int64
		personnelID  int64
		rankID       int64
		subID        int64
		posSubID     int64
		assignedDate pgtype.Date
		lastUpdated  time.Time
	)
	if err := row.Scan(&id, &personnelID, &rankID, &subID, &posSubID, &assignedDate, &lastUpdated); err != nil {
		return personnel.Employee{}, err
	}
	return personnel.HydrateEmployee(
		id, personnelID, rankID, subID, posSubID, fromPgDate(assignedDate), lastUpdated,
	), nil
}

func (r *PersonnelRepository) ActiveEmployee(ctx context.Context, personnelID int64) (personnel.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Employee{}, err
	}

	e, err := scanEmployee(tx.QueryRow(ctx,
		`SELECT`+employeeColumns+` FROM employees WHERE personnel_id=$1`, personnelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Employee{}, personnel.ErrEmployeeNotFound
		}
		return personnel.Employee{}, err
	}
	return e, nil
}

func (r *PersonnelRepository) CreateEmployee(ctx context.Context, e personnel.Employee) (personnel.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Employee{}, err
	}

	row := tx.QueryRow(ctx, `
	INSERT INTO employees (personnel_id, rank_id, subdivision_id, position_subdivision_id, assigned_date, last_updated)
	VALUES ($1, $2, $3, $4, $5, now())
	RETURNING`+employeeColumns,
		e.PersonnelID(), e.RankID(), e.SubdivisionID(), e.PositionSubdivisionID(), pgDate(e.AssignedDate()),
	)

	out, err := scanEmployee(row)
	if err != nil {
		return personnel.Employee{}, gerrors.Wrap(err, "failed to create employee")
	}
	return out, nil
}

func (r *PersonnelRepository) UpdateEmployee(ctx context.Context, e personnel.Employee, expected time.Time) (personnel.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Employee{}, err
	}

	row := tx.QueryRow(ctx, `
	UPDATE employees SET
		rank_id = $2,
		subdivision_id = $3,
		position_subdivision_id = $4,
		last_updated = now()
	WHERE personnel_id = $1 AND last_updated = $5
	RETURNING`+employeeColumns,
		e.PersonnelID(), e.RankID(), e.SubdivisionID(), e.PositionSubdivisionID(), expected,
	)

	out, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Employee{}, personnel.ErrStaleWrite
		}
		return personnel.Employee{}, err
	}
	return out, nil
}

func (r *PersonnelRepository) DeleteEmployee(ctx context.Context, personnelID int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE personnel_id=$1`, personnelID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return personnel.ErrEmployeeNotFound
	}
	return nil
}

const summaryQuery = `
	SELECT
		p.id,
		p.discord_id,
		p.first_name,
		p.last_name,
		p.static,
		p.is_dismissal,
		p.join_date,
		p.dismissal_date,
		p.dismissal_reason,
		p.last_updated,
		r.name,
		r.rank_level,
		s.name,
		pos.name
	FROM personnel p
	LEFT JOIN employees e ON e.personnel_id = p.id
	LEFT JOIN ranks r ON r.id = e.rank_id
	LEFT JOIN subdivisions s ON s.id = e.subdivision_id
	LEFT JOIN position_subdivision ps ON ps.id = e.position_subdivision_id
	LEFT JOIN positions pos ON pos.id = ps.position_id`

func scanSummary(row pgx.Row) (personnel.Summary, error) {
	var (
		out             personnel.Summary
		isDismissal     bool
		joinDate        pgtype.Date
		dismissalDate   pgtype.Date
		dismissalReason pgtype.Text
		rankName        pgtype.Text
		rankLevel       pgtype.Int4
		subName         pgtype.Text
		posName         pgtype.Text
	)
	if err := row.Scan(
		&out.PersonnelID, &out.DiscordID, &out.FirstName, &out.LastName, &out.Static,
		&isDismissal, &joinDate, &dismissalDate, &dismissalReason, &out.LastUpdated,
		&rankName, &rankLevel, &subName, &posName,
	); err != nil {
		return personnel.Summary{}, err
	}
	out.Status = personnel.StatusActive
	if isDismissal {
		out.Status = personnel.StatusDismissed
	}
	out.JoinDate = fromPgDate(joinDate)
	out.DismissalDate = fromPgDate(dismissalDate)
	out.DismissalReason = fromPgText(dismissalReason)
	out.Rank = fromPgText(rankName)
	if rankLevel.Valid {
		out.RankLevel = int(rankLevel.Int32)
	}
	out.Subdivision = fromPgText(subName)
	out.Position = fromPgText(posName)
	return out, nil
}

func (r *PersonnelRepository) summaryBy(ctx context.Context, tx repo.Tx, where string, arg any) (personnel.Summary, error) {
	s, err := scanSummary(tx.QueryRow(ctx, summaryQuery+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personnel.Summary{}, personnel.ErrNotFound
		}
		return personnel.Summary{}, err
	}
	return s, nil
}

func (r *PersonnelRepository) GetSummaryByID(ctx context.Context, id int64) (personnel.Summary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Summary{}, err
	}
	return r.summaryBy(ctx, tx, `p.id=$1`, id)
}

func (r *PersonnelRepository) GetSummaryByDiscordID(ctx context.Context, discordID int64) (personnel.Summary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return personnel.Summary{}, err
	}
	return r.summaryBy(ctx, tx, `p.discord_id=$1`, discordID)
}

func (r *PersonnelRepository) ListSummaries(ctx context.Context) ([]personnel.Summary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, summaryQuery+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []personnel.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
