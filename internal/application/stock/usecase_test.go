package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = int64(1)
	testLocationID = int64(10)
	testLocation2  = int64(20)
	testUserID     = int64(7)
)

func buildStockUseCase(t *testing.T) (*stock.StockUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: testProductID, SKU: "SKU-001", Name: "Café molido 500g", AlertQuantity: decimal.NewFromInt(5)})
	store.PutLocation(entity.Location{ID: testLocationID, BusinessID: 1, Name: "Tienda Centro"})
	store.PutLocation(entity.Location{ID: testLocation2, BusinessID: 1, Name: "Bodega Norte"})
	uc := stock.NewStockUseCase(store, store.Balances(), store.Movements(), store.Products(), store.Locations())
	return uc, store
}

func adjust(t *testing.T, uc *stock.StockUseCase, locationID int64, qty int64) error {
	t.Helper()
	return uc.AdjustStock(context.Background(), stock.AdjustStockInput{
		ProductID:  testProductID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
		Type:       entity.MovementTypeAdjustment,
		Reason:     "ajuste de prueba",
		UserID:     testUserID,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

// Una secuencia de ajustes deja el saldo igual a la suma de los deltas, y el
// último movimiento registra el saldo resultante.
func TestAdjustStock_SaldoIgualASumaDeDeltas(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 10))
	require.NoError(t, adjust(t, uc, testLocationID, -3))
	require.NoError(t, adjust(t, uc, testLocationID, 5))

	qty, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(12)), "saldo debe ser 10-3+5=12, fue %s", qty)

	movs, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3, "cada ajuste debe dejar un movimiento")
	// Más recientes primero: el primero es el ajuste de +5 con saldo 12.
	assert.True(t, movs[0].BalanceQuantity.Equal(decimal.NewFromInt(12)),
		"el movimiento más reciente debe registrar el saldo resultante")
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(5)))
}

// Un ajuste que dejaría el saldo negativo se rechaza sin tocar saldo ni
// historial.
func TestAdjustStock_RechazaSaldoNegativoSinPersistirNada(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 5))

	err := adjust(t, uc, testLocationID, -8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "debe emparejar con ErrInsufficientStock vía errors.Is")

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Current.Equal(decimal.NewFromInt(5)), "debe reportar el saldo vigente")
	assert.True(t, insufficient.Attempted.Equal(decimal.NewFromInt(-8)), "debe reportar el delta intentado")

	qty, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(5)), "el saldo debe quedar intacto")

	movs, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el ajuste rechazado no debe dejar movimiento")
}

// Sacar exactamente el saldo disponible es válido: el resultado cero no es
// negativo.
func TestAdjustStock_PermiteLlegarACero(t *testing.T) {
	uc, _ := buildStockUseCase(t)

	require.NoError(t, adjust(t, uc, testLocationID, 5))
	require.NoError(t, adjust(t, uc, testLocationID, -5))

	qty, err := uc.GetCurrentStock(context.Background(), testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestAdjustStock_ValidaEntrada(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	// Delta cero
	err := uc.AdjustStock(ctx, stock.AdjustStockInput{
		ProductID: testProductID, LocationID: testLocationID,
		Quantity: decimal.Zero, Type: entity.MovementTypeAdjustment, UserID: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero debe rechazarse")

	// Tipo de movimiento desconocido
	err = uc.AdjustStock(ctx, stock.AdjustStockInput{
		ProductID: testProductID, LocationID: testLocationID,
		Quantity: decimal.NewFromInt(1), Type: "Invento", UserID: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido debe rechazarse")

	// Producto inexistente
	err = uc.AdjustStock(ctx, stock.AdjustStockInput{
		ProductID: 999, LocationID: testLocationID,
		Quantity: decimal.NewFromInt(1), Type: entity.MovementTypeAdjustment, UserID: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente debe rechazarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TransferStock
// ──────────────────────────────────────────────────────────────────────────────

// Un traslado mueve la cantidad entre ubicaciones sin alterar el total y deja
// dos movimientos con la misma referencia.
func TestTransferStock_ConservaElTotalYCorrelacionaLasPiernas(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 10))

	err := uc.TransferStock(ctx, stock.TransferStockInput{
		ProductID:      testProductID,
		FromLocationID: testLocationID,
		ToLocationID:   testLocation2,
		Quantity:       decimal.NewFromInt(4),
		UserID:         testUserID,
	})
	require.NoError(t, err)

	origen, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	destino, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocation2))
	require.NoError(t, err)
	total, err := uc.GetCurrentStock(ctx, testProductID, nil)
	require.NoError(t, err)

	assert.True(t, origen.Equal(decimal.NewFromInt(6)))
	assert.True(t, destino.Equal(decimal.NewFromInt(4)))
	assert.True(t, total.Equal(decimal.NewFromInt(10)), "el traslado no debe crear ni destruir stock")

	movs, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3) // ajuste inicial + dos piernas

	var out, in *entity.StockMovement
	for _, m := range movs {
		switch m.Type {
		case entity.MovementTypeTransferOut:
			out = m
		case entity.MovementTypeTransferIn:
			in = m
		}
	}
	require.NotNil(t, out, "debe existir la pierna Transfer_Out")
	require.NotNil(t, in, "debe existir la pierna Transfer_In")
	require.NotNil(t, out.Reference)
	require.NotNil(t, in.Reference)
	assert.Equal(t, *out.Reference, *in.Reference, "ambas piernas deben compartir la referencia")
}

// Un traslado de ida y vuelta de la misma cantidad restaura ambos saldos.
func TestTransferStock_IdaYVueltaRestauraLosSaldos(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 10))
	require.NoError(t, adjust(t, uc, testLocation2, 2))

	transfer := func(from, to int64) error {
		return uc.TransferStock(ctx, stock.TransferStockInput{
			ProductID:      testProductID,
			FromLocationID: from,
			ToLocationID:   to,
			Quantity:       decimal.NewFromInt(4),
			UserID:         testUserID,
		})
	}
	require.NoError(t, transfer(testLocationID, testLocation2))
	require.NoError(t, transfer(testLocation2, testLocationID))

	origen, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	destino, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocation2))
	require.NoError(t, err)
	assert.True(t, origen.Equal(decimal.NewFromInt(10)), "el origen vuelve a su saldo inicial, fue %s", origen)
	assert.True(t, destino.Equal(decimal.NewFromInt(2)), "el destino vuelve a su saldo inicial, fue %s", destino)

	// El ciclo completo deja cuatro piernas en el historial pero una sola fila
	// de saldo por ubicación.
	levels, err := uc.GetStockLevels(ctx, testProductID)
	require.NoError(t, err)
	assert.Len(t, levels, 2, "una fila de saldo por ubicación, sin duplicados")

	movs, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 6) // dos ajustes iniciales + cuatro piernas
}

// Si el origen no alcanza, ninguna de las dos piernas se aplica.
func TestTransferStock_OrigenInsuficienteNoAplicaNada(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 3))

	err := uc.TransferStock(ctx, stock.TransferStockInput{
		ProductID:      testProductID,
		FromLocationID: testLocationID,
		ToLocationID:   testLocation2,
		Quantity:       decimal.NewFromInt(5),
		UserID:         testUserID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	origen, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocationID))
	require.NoError(t, err)
	destino, err := uc.GetCurrentStock(ctx, testProductID, int64Ptr(testLocation2))
	require.NoError(t, err)
	assert.True(t, origen.Equal(decimal.NewFromInt(3)), "el origen debe quedar intacto")
	assert.True(t, destino.IsZero(), "el destino no debe recibir nada")

	movs, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "un traslado fallido no debe dejar piernas en el historial")
}

func TestTransferStock_MismaUbicacionEsInvalido(t *testing.T) {
	uc, _ := buildStockUseCase(t)

	err := uc.TransferStock(context.Background(), stock.TransferStockInput{
		ProductID:      testProductID,
		FromLocationID: testLocationID,
		ToLocationID:   testLocationID,
		Quantity:       decimal.NewFromInt(1),
		UserID:         testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransferStock_CantidadNoPositivaEsInvalida(t *testing.T) {
	uc, _ := buildStockUseCase(t)

	err := uc.TransferStock(context.Background(), stock.TransferStockInput{
		ProductID:      testProductID,
		FromLocationID: testLocationID,
		ToLocationID:   testLocation2,
		Quantity:       decimal.NewFromInt(-2),
		UserID:         testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetCurrentStock_SinUbicacionSumaTodas(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	require.NoError(t, adjust(t, uc, testLocationID, 7))
	require.NoError(t, adjust(t, uc, testLocation2, 3))

	total, err := uc.GetCurrentStock(ctx, testProductID, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10)))

	// Producto sin saldos: total cero, no error.
	vacio, err := uc.GetCurrentStock(ctx, 999, nil)
	require.NoError(t, err)
	assert.True(t, vacio.IsZero())
}

func TestGetStockHistory_PaginaMasRecientesPrimero(t *testing.T) {
	uc, _ := buildStockUseCase(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, adjust(t, uc, testLocationID, i))
	}

	page1, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.True(t, page1[0].Quantity.Equal(decimal.NewFromInt(5)), "primero el más reciente")

	page2, err := uc.GetStockHistory(ctx, testProductID, nil, nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.True(t, page2[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestGetLowStockProducts_FiltraPorUmbral(t *testing.T) {
	uc, store := buildStockUseCase(t)
	ctx := context.Background()

	// Producto sin umbral de alerta: nunca aparece.
	store.PutProduct(entity.Product{ID: 2, SKU: "SKU-002", Name: "Azúcar 1kg", AlertQuantity: decimal.Zero})

	require.NoError(t, adjust(t, uc, testLocationID, 4)) // bajo el umbral (5)
	require.NoError(t, uc.AdjustStock(ctx, stock.AdjustStockInput{
		ProductID: 2, LocationID: testLocationID,
		Quantity: decimal.NewFromInt(1), Type: entity.MovementTypeAdjustment, UserID: testUserID,
	}))

	items, err := uc.GetLowStockProducts(ctx, testLocationID)
	require.NoError(t, err)
	require.Len(t, items, 1, "solo el producto con umbral configurado y saldo bajo")
	assert.Equal(t, testProductID, items[0].ProductID)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(4)))

	// Al reponer por encima del umbral, sale del reporte.
	require.NoError(t, adjust(t, uc, testLocationID, 10))
	items, err = uc.GetLowStockProducts(ctx, testLocationID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func int64Ptr(v int64) *int64 { return &v }
