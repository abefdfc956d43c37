package catalog

import (
	"context"

	gerrors "github.com/go-faster/errors"
)

var (
	ErrRankNotFound        = gerrors.New("rank not found")
	ErrSubdivisionNotFound = gerrors.New("subdivision not found")
	ErrPositionNotFound    = gerrors.New("position not found")
	ErrPairingNotFound     = gerrors.New("position is not registered for subdivision")
)

type Repository interface {
	RankByName(ctx context.Context, name string) (Rank, error)
	RankByID(ctx context.Context, id int64) (Rank, error)
	SubdivisionByName(ctx context.Context, name string) (Subdivision, error)
	SubdivisionByID(ctx context.Context, id int64) (Subdivision, error)
	PositionByName(ctx context.Context, name string) (Position, error)
	PositionByID(ctx context.Context, id int64) (Position, error)
	// Pairing resolves the registered (position, subdivision) pair or
	// returns ErrPairingNotFound.
	Pairing(ctx context.Context, positionID, subdivisionID int64) (PositionSubdivision, error)
	PairingByID(ctx context.Context, id int64) (PositionSubdivision, error)

	ListRanks(ctx context.Context) ([]Rank, error)
	ListSubdivisions(ctx context.Context) ([]Subdivision, error)
	ListPositions(ctx context.Context) ([]Position, error)

	CreateRank(ctx context.Context, r Rank) (Rank, error)
	CreateSubdivision(ctx context.Context, s Subdivision) (Subdivision, error)
	CreatePosition(ctx context.Context, p Position) (Position, error)
	CreatePairing(ctx context.Context, positionID, subdivisionID int64) (PositionSubdivision, error)
}
