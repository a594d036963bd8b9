package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeAdjustment  = "Adjustment"   // ajuste manual
	MovementTypeTransferOut = "Transfer_Out" // salida por traslado
	MovementTypeTransferIn  = "Transfer_In"  // entrada por traslado
	MovementTypeStockTake   = "StockTake"    // ajuste por conteo físico
	MovementTypeSale        = "Sale"         // venta
	MovementTypePurchase    = "Purchase"     // compra
)

// ValidMovementType indica si el tipo pertenece al catálogo de movimientos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeAdjustment, MovementTypeTransferOut, MovementTypeTransferIn,
		MovementTypeStockTake, MovementTypeSale, MovementTypePurchase:
		return true
	}
	return false
}

// StockMovement es el registro histórico de cada cambio de saldo (append-only).
// Quantity es el delta firmado; BalanceQuantity el saldo resultante tras aplicarlo.
// Invariante: reproducir los deltas en orden cronológico da exactamente el saldo actual.
type StockMovement struct {
	ID              string // uuid
	ProductID       int64
	LocationID      int64
	Type            string
	Quantity        decimal.Decimal // delta firmado
	BalanceQuantity decimal.Decimal // saldo después del movimiento
	Reference       *string         // correlaciona legs de traslado o un conteo ("StockTake-{id}")
	Reason          string
	CreatedBy       int64
	CreatedAt       time.Time
}
