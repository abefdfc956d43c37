package composables

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsePool_MissingPool(t *testing.T) {
	t.Parallel()

	_, err := UsePool(context.Background())
	require.ErrorIs(t, err, ErrNoPool)
}

func TestUseTx_FallsBackToPoolError(t *testing.T) {
	t.Parallel()

	_, err := UseTx(context.Background())
	require.ErrorIs(t, err, ErrNoPool)
}

func TestInTx_RequiresPool(t *testing.T) {
	t.Parallel()

	err := InTx(context.Background(), func(context.Context) error { return nil })
	require.ErrorIs(t, err, ErrNoPool)
}
