package stocktake

import (
	"context"
	"time"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// que necesita el ciclo de vida de un conteo: cabecera + detalles + saldos +
// historial se confirman o revierten juntos.
type TxRunner interface {
	RunStockTake(ctx context.Context, fn func(
		stockTakeRepo repository.StockTakeRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// Adjuster aplica un ajuste de stock dentro de la transacción del caller.
// Lo implementa el motor de stock (stock.StockUseCase.AdjustInTx).
type Adjuster interface {
	AdjustInTx(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
		input stock.AdjustStockInput,
		now time.Time,
	) error
}
