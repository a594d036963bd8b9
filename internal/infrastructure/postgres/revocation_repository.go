package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

var _ repository.RevocationRepository = (*RevocationRepo)(nil)

// RevocationRepo lista de revocación de tokens sobre PostgreSQL (tabla
// revoked_tokens). Sobrevive reinicios, a diferencia del store en memoria.
type RevocationRepo struct {
	q Querier
}

func NewRevocationRepository(q Querier) *RevocationRepo {
	return &RevocationRepo{q: q}
}

// Revoke marca un token como revocado; revocar dos veces es inocuo.
func (r *RevocationRepo) Revoke(tokenID string, at time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_id, revoked_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, tokenID, at); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked indica si un token está en la lista de revocación.
func (r *RevocationRepo) IsRevoked(tokenID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id = $1)`
	var revoked bool
	if err := r.q.QueryRow(context.Background(), query, tokenID).Scan(&revoked); err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
