package repository

import (
	"time"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// StockTakeRepository puerto de sesiones de conteo físico y sus líneas.
// Los detalles viven y mueren con su cabecera (ciclo de vida en cascada).
type StockTakeRepository interface {
	Create(stockTake *entity.StockTake) error // asigna ID
	GetByID(id int64) (*entity.StockTake, error)
	// GetForUpdate bloquea la cabecera para validar y cambiar el estado sin carreras.
	GetForUpdate(id int64) (*entity.StockTake, error)
	Update(stockTake *entity.StockTake) error
	List(locationID *int64, from, to *time.Time) ([]*entity.StockTake, error)

	CreateDetails(details []*entity.StockTakeDetail) error
	GetDetail(stockTakeID, productID int64) (*entity.StockTakeDetail, error)
	UpdateDetail(detail *entity.StockTakeDetail) error
	ListDetails(stockTakeID int64) ([]*entity.StockTakeDetail, error)
}
