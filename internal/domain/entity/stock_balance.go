package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance representa el saldo actual de un producto en una ubicación
// (una fila por producto/variante/ubicación/lote). Invariante: Quantity >= 0.
// Nunca se elimina físicamente; la cantidad puede llegar a cero.
type StockBalance struct {
	ProductID        int64
	ProductVariantID *int64
	LocationID       int64
	LotNumber        *string
	Quantity         decimal.Decimal
	ExpiryDate       *time.Time
	UpdatedAt        time.Time
}

// LowStockItem resultado de la consulta de productos bajo el umbral de alerta
// (saldo + atributos del directorio de productos necesarios para mostrarlo).
type LowStockItem struct {
	ProductID     int64
	SKU           string
	Name          string
	LocationID    int64
	Quantity      decimal.Decimal
	AlertQuantity decimal.Decimal
}
