package repository

import "time"

// RevocationRepository lista de revocación de tokens de sesión: token id ->
// instante de revocación. Se inyecta en el Token Authority para poder cambiar
// la persistencia (memoria, base de datos) sin tocar la validación.
type RevocationRepository interface {
	Revoke(tokenID string, at time.Time) error
	IsRevoked(tokenID string) (bool, error)
}
