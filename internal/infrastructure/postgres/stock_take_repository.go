package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

var _ repository.StockTakeRepository = (*StockTakeRepo)(nil)

// StockTakeRepo implementación de sesiones de conteo sobre PostgreSQL
// (usable con pool o tx).
type StockTakeRepo struct {
	q Querier
}

// NewStockTakeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTakeRepository(q Querier) *StockTakeRepo {
	return &StockTakeRepo{q: q}
}

const stockTakeColumns = `id, location_id, date, status, auto_adjusted, completed_date, notes, created_by, created_at`

func scanStockTake(row pgx.Row) (*entity.StockTake, error) {
	var st entity.StockTake
	err := row.Scan(&st.ID, &st.LocationID, &st.Date, &st.Status, &st.AutoAdjusted,
		&st.CompletedDate, &st.Notes, &st.CreatedBy, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Create persiste la cabecera y asigna el ID generado.
func (r *StockTakeRepo) Create(stockTake *entity.StockTake) error {
	query := `
		INSERT INTO stock_takes (location_id, date, status, auto_adjusted, completed_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		stockTake.LocationID, stockTake.Date, stockTake.Status, stockTake.AutoAdjusted,
		stockTake.CompletedDate, stockTake.Notes, stockTake.CreatedBy, stockTake.CreatedAt,
	).Scan(&stockTake.ID)
	if err != nil {
		return fmt.Errorf("create stock take: %w", err)
	}
	return nil
}

// GetByID obtiene una cabecera; nil si no existe.
func (r *StockTakeRepo) GetByID(id int64) (*entity.StockTake, error) {
	query := `SELECT ` + stockTakeColumns + ` FROM stock_takes WHERE id = $1`
	st, err := scanStockTake(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock take: %w", err)
	}
	return st, nil
}

// GetForUpdate obtiene la cabecera bloqueando la fila; nil si no existe.
func (r *StockTakeRepo) GetForUpdate(id int64) (*entity.StockTake, error) {
	query := `SELECT ` + stockTakeColumns + ` FROM stock_takes WHERE id = $1 FOR UPDATE`
	st, err := scanStockTake(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock take for update: %w", err)
	}
	return st, nil
}

// Update sobreescribe los campos mutables de la cabecera.
func (r *StockTakeRepo) Update(stockTake *entity.StockTake) error {
	query := `
		UPDATE stock_takes
		SET status = $2, auto_adjusted = $3, completed_date = $4, notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		stockTake.ID, stockTake.Status, stockTake.AutoAdjusted,
		stockTake.CompletedDate, stockTake.Notes)
	if err != nil {
		return fmt.Errorf("update stock take: %w", err)
	}
	return nil
}

// List cabeceras filtradas por ubicación y rango de fechas, más recientes
// primero.
func (r *StockTakeRepo) List(locationID *int64, from, to *time.Time) ([]*entity.StockTake, error) {
	query := `SELECT ` + stockTakeColumns + ` FROM stock_takes WHERE 1=1`
	var args []any
	pos := 1
	if locationID != nil {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, *locationID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock takes: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTake
	for rows.Next() {
		var st entity.StockTake
		if err := rows.Scan(&st.ID, &st.LocationID, &st.Date, &st.Status, &st.AutoAdjusted,
			&st.CompletedDate, &st.Notes, &st.CreatedBy, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock take: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}

// CreateDetails inserta las líneas de una sesión (foto inicial de saldos).
func (r *StockTakeRepo) CreateDetails(details []*entity.StockTakeDetail) error {
	query := `
		INSERT INTO stock_take_details (stock_take_id, product_id, product_variant_id, expected_quantity, counted_quantity, variance, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range details {
		_, err := r.q.Exec(context.Background(), query,
			d.StockTakeID, d.ProductID, d.ProductVariantID,
			d.Expected, d.Counted, d.Variance, d.Notes)
		if err != nil {
			return fmt.Errorf("create stock take detail (producto %d): %w", d.ProductID, err)
		}
	}
	return nil
}

// GetDetail obtiene una línea por sesión y producto; nil si no existe.
func (r *StockTakeRepo) GetDetail(stockTakeID, productID int64) (*entity.StockTakeDetail, error) {
	query := `
		SELECT stock_take_id, product_id, product_variant_id, expected_quantity, counted_quantity, variance, notes
		FROM stock_take_details WHERE stock_take_id = $1 AND product_id = $2`
	var d entity.StockTakeDetail
	err := r.q.QueryRow(context.Background(), query, stockTakeID, productID).Scan(
		&d.StockTakeID, &d.ProductID, &d.ProductVariantID,
		&d.Expected, &d.Counted, &d.Variance, &d.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock take detail: %w", err)
	}
	return &d, nil
}

// UpdateDetail sobreescribe conteo, varianza y notas de una línea.
func (r *StockTakeRepo) UpdateDetail(detail *entity.StockTakeDetail) error {
	query := `
		UPDATE stock_take_details
		SET counted_quantity = $3, variance = $4, notes = $5
		WHERE stock_take_id = $1 AND product_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		detail.StockTakeID, detail.ProductID,
		detail.Counted, detail.Variance, detail.Notes)
	if err != nil {
		return fmt.Errorf("update stock take detail: %w", err)
	}
	return nil
}

// ListDetails líneas de una sesión ordenadas por producto.
func (r *StockTakeRepo) ListDetails(stockTakeID int64) ([]*entity.StockTakeDetail, error) {
	query := `
		SELECT stock_take_id, product_id, product_variant_id, expected_quantity, counted_quantity, variance, notes
		FROM stock_take_details WHERE stock_take_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, stockTakeID)
	if err != nil {
		return nil, fmt.Errorf("list stock take details: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTakeDetail
	for rows.Next() {
		var d entity.StockTakeDetail
		if err := rows.Scan(&d.StockTakeID, &d.ProductID, &d.ProductVariantID,
			&d.Expected, &d.Counted, &d.Variance, &d.Notes); err != nil {
			return nil, fmt.Errorf("scan stock take detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
