package repository

import "github.com/jhoicas/pos-stock-api/internal/domain/entity"

// Directorio de productos/ubicaciones/usuarios: colaborador externo del núcleo
// de stock, consumido solo por identificador. Toda lectura filtra is_deleted.

// ProductRepository lecturas del catálogo de productos.
type ProductRepository interface {
	GetByID(id int64) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}

// LocationRepository lecturas de ubicaciones por negocio.
type LocationRepository interface {
	GetByID(id int64) (*entity.Location, error)
	ListByBusiness(businessID int64) ([]*entity.Location, error)
}

// UserRepository lecturas de usuarios para autenticación.
type UserRepository interface {
	GetByID(id int64) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}
