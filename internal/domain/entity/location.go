package entity

import "time"

// Location ubicación física de un negocio (tienda o bodega).
type Location struct {
	ID         int64
	BusinessID int64
	Name       string
	IsDeleted  bool
	CreatedAt  time.Time
}
