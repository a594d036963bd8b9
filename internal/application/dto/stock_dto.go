package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
// Quantity es el delta firmado (negativo para salidas).
type AdjustStockRequest struct {
	ProductID  int64           `json:"product_id"`
	LocationID int64           `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Type       string          `json:"type"`
	Reason     string          `json:"reason"`
	Reference  *string         `json:"reference,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfers.
type TransferStockRequest struct {
	ProductID      int64           `json:"product_id"`
	FromLocationID int64           `json:"from_location_id"`
	ToLocationID   int64           `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reference      *string         `json:"reference,omitempty"`
}

// StockBalanceResponse saldo de un producto en una ubicación.
type StockBalanceResponse struct {
	ProductID  int64           `json:"product_id"`
	LocationID int64           `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	LotNumber  *string         `json:"lot_number,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockMovementResponse un movimiento del historial.
type StockMovementResponse struct {
	ID              string          `json:"id"`
	ProductID       int64           `json:"product_id"`
	LocationID      int64           `json:"location_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceQuantity decimal.Decimal `json:"balance_quantity"`
	Reference       *string         `json:"reference,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	CreatedBy       int64           `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LowStockItemResponse producto bajo su umbral de alerta en una ubicación.
type LowStockItemResponse struct {
	ProductID     int64           `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	LocationID    int64           `json:"location_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	AlertQuantity decimal.Decimal `json:"alert_quantity"`
}
