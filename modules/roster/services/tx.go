package services

import (
	"context"

	"github.com/rosterhq/roster/pkg/composables"
)

// TxManager owns the transaction boundary of one engine operation. The
// production implementation opens a pgx transaction from the pool in
// context; tests substitute a pass-through.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type pgTxManager struct{}

func NewPgTxManager() TxManager { return pgTxManager{} }

func (pgTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return composables.InTx(ctx, fn)
}
