package entity

import "time"

// SessionToken payload de un token de sesión opaco. Inmutable una vez emitido:
// renovar crea un token nuevo y revoca el anterior.
type SessionToken struct {
	TokenID        string    `json:"token_id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Expired indica si el token ya pasó su fecha de expiración.
func (t *SessionToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Remaining tiempo de vida restante (cero o negativo si ya expiró).
func (t *SessionToken) Remaining(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}
