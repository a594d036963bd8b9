package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockTakeRequest body para POST /api/stock-takes.
type CreateStockTakeRequest struct {
	LocationID int64  `json:"location_id"`
	Notes      string `json:"notes,omitempty"`
}

// UpdateStockTakeDetailRequest body para PUT /api/stock-takes/:id/details.
type UpdateStockTakeDetailRequest struct {
	ProductID int64           `json:"product_id"`
	Counted   decimal.Decimal `json:"counted_quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// CompleteStockTakeRequest body para POST /api/stock-takes/:id/complete.
type CompleteStockTakeRequest struct {
	AutoAdjust bool `json:"auto_adjust"`
}

// StockTakeResponse cabecera de una sesión de conteo.
type StockTakeResponse struct {
	ID            int64      `json:"id"`
	LocationID    int64      `json:"location_id"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	AutoAdjusted  bool       `json:"auto_adjusted"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// StockTakeDetailResponse línea de conteo.
type StockTakeDetailResponse struct {
	ProductID int64           `json:"product_id"`
	Expected  decimal.Decimal `json:"expected_quantity"`
	Counted   decimal.Decimal `json:"counted_quantity"`
	Variance  decimal.Decimal `json:"variance"`
	Notes     string          `json:"notes,omitempty"`
}
