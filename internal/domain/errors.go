package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidState      = errors.New("operación inválida para el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError lleva el saldo actual y el delta intentado para que
// la capa de presentación pueda explicar el rechazo. errors.Is lo empareja
// con ErrInsufficientStock.
type InsufficientStockError struct {
	Current   decimal.Decimal
	Attempted decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: actual %s, ajuste %s", e.Current, e.Attempted)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
