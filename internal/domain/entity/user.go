package entity

import "time"

// User usuario del sistema (credenciales verificadas con bcrypt en login).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	IsActive     bool
	CreatedAt    time.Time
}
