package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// StockBalanceRepository puerto de lectura/escritura de saldos por
// producto+ubicación. Get y GetForUpdate devuelven un saldo en cero cuando la
// fila aún no existe (el primer ajuste la crea vía Upsert).
type StockBalanceRepository interface {
	Get(productID, locationID int64) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para el ciclo
	// leer-calcular-escribir del motor de stock.
	GetForUpdate(productID, locationID int64) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListByProduct(productID int64) ([]*entity.StockBalance, error)
	ListByLocation(locationID int64) ([]*entity.StockBalance, error)
	SumByProduct(productID int64) (decimal.Decimal, error)
	// ListLowStock saldos con quantity <= alert_quantity del producto y
	// alert_quantity > 0, en una ubicación.
	ListLowStock(locationID int64) ([]*entity.LowStockItem, error)
}
