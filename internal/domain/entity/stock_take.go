package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de conteo físico. InProgress es el único estado no
// terminal: Completed y Cancelled no admiten transiciones de salida.
const (
	StockTakeStatusInProgress = "InProgress"
	StockTakeStatusCompleted  = "Completed"
	StockTakeStatusCancelled  = "Cancelled"
)

// StockTake cabecera de una sesión de inventario físico en una ubicación.
type StockTake struct {
	ID            int64
	LocationID    int64
	Date          time.Time
	Status        string
	AutoAdjusted  bool
	CompletedDate *time.Time
	Notes         string
	CreatedBy     int64
	CreatedAt     time.Time
}

// StockTakeDetail línea de conteo por producto. Expected es la foto del saldo
// al crear la sesión y queda congelada; Counted se sobreescribe en cada
// actualización y Variance = Counted - Expected se recalcula siempre.
type StockTakeDetail struct {
	StockTakeID      int64
	ProductID        int64
	ProductVariantID *int64
	Expected         decimal.Decimal
	Counted          decimal.Decimal
	Variance         decimal.Decimal
	Notes            string
}
