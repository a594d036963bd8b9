package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// StockUseCase motor de stock: único escritor de saldos. Cada ajuste se ejecuta
// con bloqueo de fila (SELECT FOR UPDATE) dentro de una transacción, garantiza
// saldo no negativo y deja un movimiento en el historial.
type StockUseCase struct {
	txRunner     TxRunner
	balanceRepo  repository.StockBalanceRepository
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// AdjustStockInput entrada para un ajuste de stock. Quantity es el delta
// firmado (negativo para salidas). Reference correlaciona movimientos
// relacionados (legs de traslado, conteos).
type AdjustStockInput struct {
	ProductID  int64
	LocationID int64
	Quantity   decimal.Decimal
	Type       string
	Reason     string
	Reference  *string
	UserID     int64
}

// TransferStockInput entrada para un traslado entre ubicaciones.
// Quantity debe ser positiva y las ubicaciones distintas.
type TransferStockInput struct {
	ProductID      int64
	FromLocationID int64
	ToLocationID   int64
	Quantity       decimal.Decimal
	Reference      *string
	UserID         int64
}

// AdjustStock valida, inicia una transacción y aplica el ajuste: lee el saldo
// con bloqueo, suma el delta, rechaza resultados negativos sin persistir nada
// y guarda saldo + movimiento atómicamente.
func (uc *StockUseCase) AdjustStock(ctx context.Context, input AdjustStockInput) error {
	if input.ProductID == 0 || input.LocationID == 0 || input.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(input.Type) {
		return domain.ErrInvalidInput
	}
	if err := uc.checkDirectory(input.ProductID, input.LocationID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		return uc.AdjustInTx(balanceRepo, movementRepo, input, now)
	})
}

// AdjustInTx aplica un ajuste usando repositorios ya atados a la transacción
// del caller. Lo usa el motor de conteos para reconciliar variaciones dentro
// de su propia transacción.
func (uc *StockUseCase) AdjustInTx(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	input AdjustStockInput,
	now time.Time,
) error {
	// Bloquea la fila del saldo; si no existe aún, parte de cero.
	balance, err := balanceRepo.GetForUpdate(input.ProductID, input.LocationID)
	if err != nil {
		return err
	}
	newQty := balance.Quantity.Add(input.Quantity)
	if newQty.IsNegative() {
		return &domain.InsufficientStockError{Current: balance.Quantity, Attempted: input.Quantity}
	}
	balance.Quantity = newQty
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(balance); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		LocationID:      input.LocationID,
		Type:            input.Type,
		Quantity:        input.Quantity,
		BalanceQuantity: newQty,
		Reference:       input.Reference,
		Reason:          input.Reason,
		CreatedBy:       input.UserID,
		CreatedAt:       now,
	}
	return movementRepo.Create(mov)
}

// TransferStock traslada stock entre dos ubicaciones como dos ajustes ligados
// (Transfer_Out y Transfer_In) dentro de UNA transacción, compartiendo una
// referencia para que el par sea correlacionable en el historial. Si la salida
// falla por stock insuficiente no se aplica ninguna de las dos piernas.
func (uc *StockUseCase) TransferStock(ctx context.Context, input TransferStockInput) error {
	if input.ProductID == 0 || !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID {
		return domain.ErrInvalidInput
	}
	if err := uc.checkDirectory(input.ProductID, input.FromLocationID); err != nil {
		return err
	}
	if _, err := uc.location(input.ToLocationID); err != nil {
		return err
	}

	reference := input.Reference
	if reference == nil {
		ref := uuid.New().String()
		reference = &ref
	}
	now := time.Now().UTC()

	return uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		out := AdjustStockInput{
			ProductID:  input.ProductID,
			LocationID: input.FromLocationID,
			Quantity:   input.Quantity.Neg(),
			Type:       entity.MovementTypeTransferOut,
			Reason:     fmt.Sprintf("Traslado hacia ubicación %d", input.ToLocationID),
			Reference:  reference,
			UserID:     input.UserID,
		}
		if err := uc.AdjustInTx(balanceRepo, movementRepo, out, now); err != nil {
			return err
		}
		in := AdjustStockInput{
			ProductID:  input.ProductID,
			LocationID: input.ToLocationID,
			Quantity:   input.Quantity,
			Type:       entity.MovementTypeTransferIn,
			Reason:     fmt.Sprintf("Traslado desde ubicación %d", input.FromLocationID),
			Reference:  reference,
			UserID:     input.UserID,
		}
		return uc.AdjustInTx(balanceRepo, movementRepo, in, now)
	})
}

// GetCurrentStock saldo actual de un producto; si locationID es nil suma todas
// las ubicaciones.
func (uc *StockUseCase) GetCurrentStock(ctx context.Context, productID int64, locationID *int64) (decimal.Decimal, error) {
	if locationID == nil {
		return uc.balanceRepo.SumByProduct(productID)
	}
	balance, err := uc.balanceRepo.Get(productID, *locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Quantity, nil
}

// GetStockLevels saldos de un producto desglosados por ubicación.
func (uc *StockUseCase) GetStockLevels(ctx context.Context, productID int64) ([]*entity.StockBalance, error) {
	return uc.balanceRepo.ListByProduct(productID)
}

// GetStockByLocation saldos de todos los productos en una ubicación.
func (uc *StockUseCase) GetStockByLocation(ctx context.Context, locationID int64) ([]*entity.StockBalance, error) {
	return uc.balanceRepo.ListByLocation(locationID)
}

// GetStockHistory movimientos de un producto en un rango de fechas, más
// recientes primero.
func (uc *StockUseCase) GetStockHistory(ctx context.Context, productID int64, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movementRepo.ListByProduct(productID, from, to, limit, offset)
}

// GetLowStockProducts productos cuyo saldo está en o bajo su umbral de alerta
// (alert_quantity > 0) en una ubicación.
func (uc *StockUseCase) GetLowStockProducts(ctx context.Context, locationID int64) ([]*entity.LowStockItem, error) {
	if _, err := uc.location(locationID); err != nil {
		return nil, err
	}
	return uc.balanceRepo.ListLowStock(locationID)
}

// checkDirectory valida que producto y ubicación existan en el directorio.
func (uc *StockUseCase) checkDirectory(productID, locationID int64) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	_, err = uc.location(locationID)
	return err
}

func (uc *StockUseCase) location(locationID int64) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return location, nil
}
