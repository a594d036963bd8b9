package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse entrada del catálogo de productos.
type ProductResponse struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	AlertQuantity decimal.Decimal `json:"alert_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LocationResponse ubicación de un negocio.
type LocationResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
