package repository

import (
	"time"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// StockMovementRepository puerto del historial de movimientos (append-only).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct movimientos de un producto en un rango de fechas,
	// más recientes primero.
	ListByProduct(productID int64, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
