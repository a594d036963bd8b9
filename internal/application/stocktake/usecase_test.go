package stocktake_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	locationID = int64(10)
	userID     = int64(7)
)

type fixture struct {
	stockUC *stock.StockUseCase
	uc      *stocktake.StockTakeUseCase
	store   *memory.Store
}

func buildFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutLocation(entity.Location{ID: locationID, BusinessID: 1, Name: "Tienda Centro"})
	stockUC := stock.NewStockUseCase(store, store.Balances(), store.Movements(), store.Products(), store.Locations())
	uc := stocktake.NewStockTakeUseCase(store, stockUC, store.StockTakes(), store.Locations())
	return &fixture{stockUC: stockUC, uc: uc, store: store}
}

// seedProduct crea el producto y deja el saldo pedido en la ubicación de prueba.
func (f *fixture) seedProduct(t *testing.T, productID, qty int64) {
	t.Helper()
	f.store.PutProduct(entity.Product{ID: productID, SKU: "SKU", Name: "Producto"})
	if qty != 0 {
		require.NoError(t, f.stockUC.AdjustStock(context.Background(), stock.AdjustStockInput{
			ProductID:  productID,
			LocationID: locationID,
			Quantity:   decimal.NewFromInt(qty),
			Type:       entity.MovementTypePurchase,
			Reason:     "carga inicial",
			UserID:     userID,
		}))
	}
}

func (f *fixture) balance(t *testing.T, productID int64) decimal.Decimal {
	t.Helper()
	qty, err := f.stockUC.GetCurrentStock(context.Background(), productID, ptr(locationID))
	require.NoError(t, err)
	return qty
}

func ptr(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

// Al abrir la sesión se congela la foto: expected = saldo actual, counted = 0,
// variance = -expected.
func TestCreate_CongelaLaFotoDeSaldos(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	f.seedProduct(t, 2, 3)

	result, err := f.uc.Create(context.Background(), locationID, "conteo mensual", userID)
	require.NoError(t, err)
	require.NotNil(t, result.StockTake)
	assert.Equal(t, entity.StockTakeStatusInProgress, result.StockTake.Status)
	assert.Equal(t, "conteo mensual", result.StockTake.Notes)
	require.Len(t, result.Details, 2, "un detalle por saldo existente")

	d := result.Details[0] // ordenados por producto
	assert.Equal(t, int64(1), d.ProductID)
	assert.True(t, d.Expected.Equal(decimal.NewFromInt(10)))
	assert.True(t, d.Counted.IsZero())
	assert.True(t, d.Variance.Equal(decimal.NewFromInt(-10)), "variance inicial = -expected")
}

// La foto no se actualiza si los saldos cambian durante la sesión.
func TestCreate_LaFotoNoSigueLosSaldosVivos(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)

	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)

	// Venta posterior a la apertura.
	require.NoError(t, f.stockUC.AdjustStock(context.Background(), stock.AdjustStockInput{
		ProductID: 1, LocationID: locationID,
		Quantity: decimal.NewFromInt(-4), Type: entity.MovementTypeSale, UserID: userID,
	}))

	fresh, err := f.uc.GetByID(context.Background(), result.StockTake.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Details[0].Expected.Equal(decimal.NewFromInt(10)),
		"expected debe quedar congelado en la foto de apertura")
}

func TestCreate_UbicacionInexistente(t *testing.T) {
	f := buildFixture(t)
	_, err := f.uc.Create(context.Background(), 999, "", userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateDetail
// ──────────────────────────────────────────────────────────────────────────────

// Registrar un conteo sobrescribe counted y recalcula variance; repetirlo no
// acumula.
func TestUpdateDetail_SobrescribeYRecalcula(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(6), "primer pasada"))
	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(7), "recuento"))

	fresh, err := f.uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	d := fresh.Details[0]
	assert.True(t, d.Counted.Equal(decimal.NewFromInt(7)), "el segundo conteo sobrescribe al primero")
	assert.True(t, d.Variance.Equal(decimal.NewFromInt(-3)), "variance = counted - expected = 7-10")
	assert.Equal(t, "recuento", d.Notes)
}

func TestUpdateDetail_ProductoFueraDeLaFoto(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)

	err = f.uc.UpdateDetail(context.Background(), result.StockTake.ID, 999, decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDetail_SesionCerradaEsInvalida(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	_, err = f.uc.Complete(context.Background(), id, false, userID)
	require.NoError(t, err)

	err = f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(5), "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una sesión completada no admite más conteos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Complete
// ──────────────────────────────────────────────────────────────────────────────

// Sin auto-ajuste las variaciones quedan registradas y los saldos intactos.
func TestComplete_SinAutoAjusteNoTocaSaldos(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(7), ""))

	completed, err := f.uc.Complete(context.Background(), id, false, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTakeStatusCompleted, completed.Status)
	assert.False(t, completed.AutoAdjusted)
	require.NotNil(t, completed.CompletedDate)

	assert.True(t, f.balance(t, 1).Equal(decimal.NewFromInt(10)), "el saldo no debe cambiar")

	movs, err := f.stockUC.GetStockHistory(context.Background(), 1, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la carga inicial; el cierre sin auto-ajuste no agrega movimientos")
}

// Con auto-ajuste cada variación distinta de cero genera un movimiento
// StockTake y el saldo queda igual a lo contado.
func TestComplete_ConAutoAjusteReconciliaLosSaldos(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10) // contado 7 -> ajuste -3
	f.seedProduct(t, 2, 5)  // contado 5 -> sin ajuste
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(7), ""))
	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 2, decimal.NewFromInt(5), ""))

	completed, err := f.uc.Complete(context.Background(), id, true, userID)
	require.NoError(t, err)
	assert.True(t, completed.AutoAdjusted)

	assert.True(t, f.balance(t, 1).Equal(decimal.NewFromInt(7)), "el saldo debe quedar en lo contado")
	assert.True(t, f.balance(t, 2).Equal(decimal.NewFromInt(5)))

	movs, err := f.stockUC.GetStockHistory(context.Background(), 1, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "carga inicial + ajuste de reconciliación")
	assert.Equal(t, entity.MovementTypeStockTake, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(-3)), "el ajuste aplica la variación")
	require.NotNil(t, movs[0].Reference)
	assert.Equal(t, "StockTake-1", *movs[0].Reference)

	// La variación cero del producto 2 no genera movimiento.
	movs2, err := f.stockUC.GetStockHistory(context.Background(), 2, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs2, 1)
}

// Un producto sin conteo registrado queda con counted = 0; con auto-ajuste su
// saldo se reconcilia a cero.
func TestComplete_AutoAjusteSinConteoLlevaACero(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), result.StockTake.ID, true, userID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, 1).IsZero(),
		"sin conteo registrado, auto-ajuste reconcilia el saldo a lo contado: cero")
}

// La transición es terminal: un segundo Complete (o un Cancel posterior) falla.
func TestComplete_EsTerminal(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	_, err = f.uc.Complete(context.Background(), id, false, userID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), id, true, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "doble Complete debe fallar")

	_, err = f.uc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "Cancel tras Complete debe fallar")
}

func TestComplete_SesionInexistente(t *testing.T) {
	f := buildFixture(t)
	_, err := f.uc.Complete(context.Background(), 999, false, userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Cancel y List
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_NoAplicaAjustesYEsTerminal(t *testing.T) {
	f := buildFixture(t)
	f.seedProduct(t, 1, 10)
	result, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	id := result.StockTake.ID

	require.NoError(t, f.uc.UpdateDetail(context.Background(), id, 1, decimal.NewFromInt(2), ""))

	cancelled, err := f.uc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.StockTakeStatusCancelled, cancelled.Status)

	assert.True(t, f.balance(t, 1).Equal(decimal.NewFromInt(10)), "cancelar nunca toca saldos")

	_, err = f.uc.Complete(context.Background(), id, true, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "Complete tras Cancel debe fallar")
}

func TestList_FiltraPorUbicacion(t *testing.T) {
	f := buildFixture(t)
	f.store.PutLocation(entity.Location{ID: 20, BusinessID: 1, Name: "Bodega Norte"})
	f.seedProduct(t, 1, 10)

	_, err := f.uc.Create(context.Background(), locationID, "", userID)
	require.NoError(t, err)
	_, err = f.uc.Create(context.Background(), 20, "", userID)
	require.NoError(t, err)

	all, err := f.uc.List(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.uc.List(context.Background(), ptr(locationID), nil, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, locationID, filtered[0].LocationID)
}
