package stocktake

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// StockTakeUseCase ciclo de vida de los conteos físicos de inventario:
// InProgress -> Completed | Cancelled (ambos terminales). Al crear la sesión se
// congela la foto de saldos esperados; al completar con auto-ajuste se
// reconcilian las variaciones a través del motor de stock, todo en una
// transacción.
type StockTakeUseCase struct {
	txRunner      TxRunner
	adjuster      Adjuster
	stockTakeRepo repository.StockTakeRepository
	locationRepo  repository.LocationRepository
}

// NewStockTakeUseCase construye el caso de uso.
func NewStockTakeUseCase(
	txRunner TxRunner,
	adjuster Adjuster,
	stockTakeRepo repository.StockTakeRepository,
	locationRepo repository.LocationRepository,
) *StockTakeUseCase {
	return &StockTakeUseCase{
		txRunner:      txRunner,
		adjuster:      adjuster,
		stockTakeRepo: stockTakeRepo,
		locationRepo:  locationRepo,
	}
}

// StockTakeResult cabecera + detalles de una sesión de conteo.
type StockTakeResult struct {
	StockTake *entity.StockTake
	Details   []*entity.StockTakeDetail
}

// Create abre una sesión de conteo en una ubicación y toma la foto de saldos:
// un detalle por cada saldo existente con Expected = saldo actual, Counted = 0
// y Variance = -Expected. La foto no se actualiza si los saldos cambian durante
// la sesión: la variación refleja la deriva desde el inicio del conteo.
func (uc *StockTakeUseCase) Create(ctx context.Context, locationID int64, notes string, userID int64) (*StockTakeResult, error) {
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	result := &StockTakeResult{}
	err = uc.txRunner.RunStockTake(ctx, func(
		stockTakeRepo repository.StockTakeRepository,
		balanceRepo repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		stockTake := &entity.StockTake{
			LocationID: locationID,
			Date:       now,
			Status:     entity.StockTakeStatusInProgress,
			Notes:      notes,
			CreatedBy:  userID,
			CreatedAt:  now,
		}
		if err := stockTakeRepo.Create(stockTake); err != nil {
			return err
		}

		balances, err := balanceRepo.ListByLocation(locationID)
		if err != nil {
			return err
		}
		details := make([]*entity.StockTakeDetail, 0, len(balances))
		for _, b := range balances {
			details = append(details, &entity.StockTakeDetail{
				StockTakeID:      stockTake.ID,
				ProductID:        b.ProductID,
				ProductVariantID: b.ProductVariantID,
				Expected:         b.Quantity,
				Counted:          decimal.Zero,
				Variance:         b.Quantity.Neg(),
			})
		}
		if len(details) > 0 {
			if err := stockTakeRepo.CreateDetails(details); err != nil {
				return err
			}
		}
		result.StockTake = stockTake
		result.Details = details
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDetail registra la cantidad contada de un producto y recalcula la
// variación (sobrescritura idempotente, no acumulación). Rechaza con
// ErrInvalidState si la sesión ya no está InProgress.
func (uc *StockTakeUseCase) UpdateDetail(ctx context.Context, stockTakeID, productID int64, counted decimal.Decimal, notes string) error {
	return uc.txRunner.RunStockTake(ctx, func(
		stockTakeRepo repository.StockTakeRepository,
		_ repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		stockTake, err := stockTakeRepo.GetForUpdate(stockTakeID)
		if err != nil {
			return err
		}
		if stockTake == nil {
			return domain.ErrNotFound
		}
		if stockTake.Status != entity.StockTakeStatusInProgress {
			return domain.ErrInvalidState
		}
		detail, err := stockTakeRepo.GetDetail(stockTakeID, productID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		detail.Counted = counted
		detail.Variance = counted.Sub(detail.Expected)
		detail.Notes = notes
		return stockTakeRepo.UpdateDetail(detail)
	})
}

// Complete cierra la sesión. Con autoAdjust aplica un ajuste tipo StockTake por
// cada detalle con variación distinta de cero (referencia "StockTake-{id}"),
// reconciliando el saldo vivo con la realidad contada; sin autoAdjust las
// variaciones quedan registradas y los saldos intactos. La transición es
// terminal: un segundo Complete falla con ErrInvalidState.
func (uc *StockTakeUseCase) Complete(ctx context.Context, stockTakeID int64, autoAdjust bool, userID int64) (*entity.StockTake, error) {
	now := time.Now().UTC()
	var completed *entity.StockTake
	err := uc.txRunner.RunStockTake(ctx, func(
		stockTakeRepo repository.StockTakeRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		stockTake, err := stockTakeRepo.GetForUpdate(stockTakeID)
		if err != nil {
			return err
		}
		if stockTake == nil {
			return domain.ErrNotFound
		}
		if stockTake.Status != entity.StockTakeStatusInProgress {
			return domain.ErrInvalidState
		}

		if autoAdjust {
			details, err := stockTakeRepo.ListDetails(stockTakeID)
			if err != nil {
				return err
			}
			reference := fmt.Sprintf("StockTake-%d", stockTakeID)
			for _, d := range details {
				if d.Variance.IsZero() {
					continue
				}
				input := stock.AdjustStockInput{
					ProductID:  d.ProductID,
					LocationID: stockTake.LocationID,
					Quantity:   d.Variance,
					Type:       entity.MovementTypeStockTake,
					Reason:     fmt.Sprintf("Ajuste por conteo físico #%d", stockTakeID),
					Reference:  &reference,
					UserID:     userID,
				}
				if err := uc.adjuster.AdjustInTx(balanceRepo, movementRepo, input, now); err != nil {
					return err
				}
			}
		}

		stockTake.Status = entity.StockTakeStatusCompleted
		stockTake.CompletedDate = &now
		stockTake.AutoAdjusted = autoAdjust
		if err := stockTakeRepo.Update(stockTake); err != nil {
			return err
		}
		completed = stockTake
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Cancel termina la sesión sin aplicar ajustes. Terminal igual que Complete.
func (uc *StockTakeUseCase) Cancel(ctx context.Context, stockTakeID int64) (*entity.StockTake, error) {
	var cancelled *entity.StockTake
	err := uc.txRunner.RunStockTake(ctx, func(
		stockTakeRepo repository.StockTakeRepository,
		_ repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		stockTake, err := stockTakeRepo.GetForUpdate(stockTakeID)
		if err != nil {
			return err
		}
		if stockTake == nil {
			return domain.ErrNotFound
		}
		if stockTake.Status != entity.StockTakeStatusInProgress {
			return domain.ErrInvalidState
		}
		stockTake.Status = entity.StockTakeStatusCancelled
		if err := stockTakeRepo.Update(stockTake); err != nil {
			return err
		}
		cancelled = stockTake
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// List sesiones de conteo filtradas por ubicación y rango de fechas.
func (uc *StockTakeUseCase) List(ctx context.Context, locationID *int64, from, to *time.Time) ([]*entity.StockTake, error) {
	return uc.stockTakeRepo.List(locationID, from, to)
}

// GetByID cabecera + detalles de una sesión.
func (uc *StockTakeUseCase) GetByID(ctx context.Context, stockTakeID int64) (*StockTakeResult, error) {
	stockTake, err := uc.stockTakeRepo.GetByID(stockTakeID)
	if err != nil {
		return nil, err
	}
	if stockTake == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.stockTakeRepo.ListDetails(stockTakeID)
	if err != nil {
		return nil, err
	}
	return &StockTakeResult{StockTake: stockTake, Details: details}, nil
}
