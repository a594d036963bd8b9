package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `product_id, product_variant_id, location_id, lot_number, quantity, expiry_date, updated_at`

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := row.Scan(&b.ProductID, &b.ProductVariantID, &b.LocationID, &b.LotNumber,
		&b.Quantity, &b.ExpiryDate, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo de un producto en una ubicación; saldo en cero si la
// fila no existe todavía.
func (r *StockBalanceRepo) Get(productID, locationID int64) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE product_id = $1 AND location_id = $2`
	b, err := scanBalance(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para el
// ciclo leer-calcular-escribir del motor de stock.
func (r *StockBalanceRepo) GetForUpdate(productID, locationID int64) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo. El motor de stock trabaja al grano
// (product_id, location_id): la fila se identifica por ese par y las
// dimensiones opcionales (variante, lote, vencimiento) quedan fuera del camino
// de escritura; las pobla quien reciba mercancía con esos atributos.
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.LocationID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByProduct saldos de un producto en todas las ubicaciones.
func (r *StockBalanceRepo) ListByProduct(productID int64) ([]*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE product_id = $1
		ORDER BY location_id`
	return r.list(query, productID)
}

// ListByLocation saldos de todos los productos en una ubicación.
func (r *StockBalanceRepo) ListByLocation(locationID int64) ([]*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE location_id = $1
		ORDER BY product_id`
	return r.list(query, locationID)
}

func (r *StockBalanceRepo) list(query string, arg any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.ProductVariantID, &b.LocationID, &b.LotNumber,
			&b.Quantity, &b.ExpiryDate, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SumByProduct saldo total de un producto sumando todas las ubicaciones.
func (r *StockBalanceRepo) SumByProduct(productID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_balances WHERE product_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}

// ListLowStock productos con saldo en o bajo su umbral de alerta en una
// ubicación (alert_quantity > 0 y producto no eliminado).
func (r *StockBalanceRepo) ListLowStock(locationID int64) ([]*entity.LowStockItem, error) {
	query := `
		SELECT b.product_id, p.sku, p.name, b.location_id, b.quantity, p.alert_quantity
		FROM stock_balances b
		JOIN products p ON p.id = b.product_id
		WHERE b.location_id = $1
		  AND p.is_deleted = false
		  AND p.alert_quantity > 0
		  AND b.quantity <= p.alert_quantity
		ORDER BY b.quantity ASC`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.LowStockItem
	for rows.Next() {
		var item entity.LowStockItem
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.Name, &item.LocationID,
			&item.Quantity, &item.AlertQuantity); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
