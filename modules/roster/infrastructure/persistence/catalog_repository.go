package persistence

import (
	"context"
	"errors"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/rosterhq/roster/modules/roster/domain/entities/catalog"
	"github.com/rosterhq/roster/pkg/composables"
)

type CatalogRepository struct{}

func NewCatalogRepository() catalog.Repository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) RankByName(ctx context.Context, name string) (catalog.Rank, error) {
	return r.rankBy(ctx, `LOWER(name)=LOWER($1)`, strings.TrimSpace(name))
}

func (r *CatalogRepository) RankByID(ctx context.Context, id int64) (catalog.Rank, error) {
	return r.rankBy(ctx, `id=$1`, id)
}

func (r *CatalogRepository) rankBy(ctx context.Context, where string, arg any) (catalog.Rank, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Rank{}, err
	}

	var out catalog.Rank
	err = tx.QueryRow(ctx,
		`SELECT id, name, rank_level, abbreviation, role_id FROM ranks WHERE `+where, arg,
	).Scan(&out.ID, &out.Name, &out.Level, &out.Abbreviation, &out.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Rank{}, catalog.ErrRankNotFound
		}
		return catalog.Rank{}, err
	}
	return out, nil
}

func (r *CatalogRepository) SubdivisionByName(ctx context.Context, name string) (catalog.Subdivision, error) {
	return r.subdivisionBy(ctx, `LOWER(name)=LOWER($1)`, strings.TrimSpace(name))
}

func (r *CatalogRepository) SubdivisionByID(ctx context.Context, id int64) (catalog.Subdivision, error) {
	return r.subdivisionBy(ctx, `id=$1`, id)
}

func (r *CatalogRepository) subdivisionBy(ctx context.Context, where string, arg any) (catalog.Subdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Subdivision{}, err
	}

	var out catalog.Subdivision
	err = tx.QueryRow(ctx,
		`SELECT id, name, abbreviation, role_id FROM subdivisions WHERE `+where, arg,
	).Scan(&out.ID, &out.Name, &out.Abbreviation, &out.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Subdivision{}, catalog.ErrSubdivisionNotFound
		}
		return catalog.Subdivision{}, err
	}
	return out, nil
}

func (r *CatalogRepository) PositionByName(ctx context.Context, name string) (catalog.Position, error) {
	return r.positionBy(ctx, `LOWER(name)=LOWER($1)`, strings.TrimSpace(name))
}

func (r *CatalogRepository) PositionByID(ctx context.Context, id int64) (catalog.Position, error) {
	return r.positionBy(ctx, `id=$1`, id)
}

func (r *CatalogRepository) positionBy(ctx context.Context, where string, arg any) (catalog.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Position{}, err
	}

	var out catalog.Position
	err = tx.QueryRow(ctx,
		`SELECT id, name, role_id FROM positions WHERE `+where, arg,
	).Scan(&out.ID, &out.Name, &out.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Position{}, catalog.ErrPositionNotFound
		}
		return catalog.Position{}, err
	}
	return out, nil
}

func (r *CatalogRepository) Pairing(ctx context.Context, positionID, subdivisionID int64) (catalog.PositionSubdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.PositionSubdivision{}, err
	}

	var out catalog.PositionSubdivision
	err = tx.QueryRow(ctx, `
	SELECT id, position_id, subdivision_id
	FROM position_subdivision
	WHERE position_id=$1 AND subdivision_id=$2
	`, positionID, subdivisionID).Scan(&out.ID, &out.PositionID, &out.SubdivisionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.PositionSubdivision{}, catalog.ErrPairingNotFound
		}
		return catalog.PositionSubdivision{}, err
	}
	return out, nil
}

func (r *CatalogRepository) PairingByID(ctx context.Context, id int64) (catalog.PositionSubdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.PositionSubdivision{}, err
	}

	var out catalog.PositionSubdivision
	err = tx.QueryRow(ctx,
		`SELECT id, position_id, subdivision_id FROM position_subdivision WHERE id=$1`, id,
	).Scan(&out.ID, &out.PositionID, &out.SubdivisionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.PositionSubdivision{}, catalog.ErrPairingNotFound
		}
		return catalog.PositionSubdivision{}, err
	}
	return out, nil
}

func (r *CatalogRepository) ListRanks(ctx context.Context) ([]catalog.Rank, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT id, name, rank_level, abbreviation, role_id FROM ranks ORDER BY rank_level, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Rank
	for rows.Next() {
		var rk catalog.Rank
		if err := rows.Scan(&rk.ID, &rk.Name, &rk.Level, &rk.Abbreviation, &rk.RoleID); err != nil {
			return nil, err
		}
		out = append(out, rk)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListSubdivisions(ctx context.Context) ([]catalog.Subdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT id, name, abbreviation, role_id FROM subdivisions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Subdivision
	for rows.Next() {
		var s catalog.Subdivision
		if err := rows.Scan(&s.ID, &s.Name, &s.Abbreviation, &s.RoleID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListPositions(ctx context.Context) ([]catalog.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT id, name, role_id FROM positions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Position
	for rows.Next() {
		var p catalog.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.RoleID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) CreateRank(ctx context.Context, rk catalog.Rank) (catalog.Rank, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Rank{}, err
	}

	err = tx.QueryRow(ctx, `
	INSERT INTO ranks (name, rank_level, abbreviation, role_id)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name) DO UPDATE SET
		rank_level = EXCLUDED.rank_level,
		abbreviation = EXCLUDED.abbreviation,
		role_id = EXCLUDED.role_id
	RETURNING id
	`, rk.Name, rk.Level, rk.Abbreviation, rk.RoleID).Scan(&rk.ID)
	if err != nil {
		return catalog.Rank{}, gerrors.Wrap(err, "failed to create rank")
	}
	return rk, nil
}

func (r *CatalogRepository) CreateSubdivision(ctx context.Context, s catalog.Subdivision) (catalog.Subdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Subdivision{}, err
	}

	err = tx.QueryRow(ctx, `
	INSERT INTO subdivisions (name, abbreviation, role_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET
		abbreviation = EXCLUDED.abbreviation,
		role_id = EXCLUDED.role_id
	RETURNING id
	`, s.Name, s.Abbreviation, s.RoleID).Scan(&s.ID)
	if err != nil {
		return catalog.Subdivision{}, gerrors.Wrap(err, "failed to create subdivision")
	}
	return s, nil
}

func (r *CatalogRepository) CreatePosition(ctx context.Context, p catalog.Position) (catalog.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Position{}, err
	}

	err = tx.QueryRow(ctx, `
	INSERT INTO positions (name, role_id)
	VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET role_id = EXCLUDED.role_id
	RETURNING id
	`, p.Name, p.RoleID).Scan(&p.ID)
	if err != nil {
		return catalog.Position{}, gerrors.Wrap(err, "failed to create position")
	}
	return p, nil
}

func (r *CatalogRepository) CreatePairing(ctx context.Context, positionID, subdivisionID int64) (catalog.PositionSubdivision, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.PositionSubdivision{}, err
	}

	out := catalog.PositionSubdivision{PositionID: positionID, SubdivisionID: subdivisionID}
	err = tx.QueryRow(ctx, `
	INSERT INTO position_subdivision (position_id, subdivision_id)
	VALUES ($1, $2)
	ON CONFLICT (position_id, subdivision_id) DO UPDATE SET position_id = EXCLUDED.position_id
	RETURNING id
	`, positionID, subdivisionID).Scan(&out.ID)
	if err != nil {
		return catalog.PositionSubdivision{}, gerrors.Wrap(err, "failed to create position pairing")
	}
	return out, nil
}
