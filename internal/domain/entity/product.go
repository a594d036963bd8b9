package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entrada del directorio de productos. El núcleo de stock lo consume
// solo por ID; AlertQuantity alimenta el reporte de stock bajo (0 = sin alerta).
type Product struct {
	ID            int64
	SKU           string
	Name          string
	AlertQuantity decimal.Decimal
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
