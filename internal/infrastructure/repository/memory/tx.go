package memory

import "context"

// TxManager satisfies the transactional runner without real transactions.
// The in-memory repositories mutate under their own locks, so fn just runs.
type TxManager struct{}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (*TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
