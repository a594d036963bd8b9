package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo ajustes clave-valor sobre PostgreSQL (tabla app_settings).
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve el valor de una clave; "" si no existe.
func (r *SettingsRepo) Get(key string) (string, error) {
	query := `SELECT value FROM app_settings WHERE key = $1`
	var value string
	err := r.q.QueryRow(context.Background(), query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// Set inserta o reemplaza el valor de una clave.
func (r *SettingsRepo) Set(key, value string) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(context.Background(), query, key, value); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
