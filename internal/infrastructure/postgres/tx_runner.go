package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// TxRunner implementa los puertos de transacción del motor de stock y del
// motor de conteos.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ stocktake.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. El SELECT FOR UPDATE de los repos más esta transacción
// son el punto de serialización por clave producto+ubicación.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockBalanceRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStockTake inicia una transacción con los repos que necesita el ciclo de
// vida de un conteo (cabecera + detalles + saldos + historial).
func (r *TxRunner) RunStockTake(ctx context.Context, fn func(
	stockTakeRepo repository.StockTakeRepository,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockTakeRepository(tx), NewStockBalanceRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
