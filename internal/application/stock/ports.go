package stock

import (
	"context"

	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que saldo + historial se confirman
// como una unidad atómica (o se revierten juntos).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
