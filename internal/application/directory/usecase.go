package directory

import (
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
	"github.com/jhoicas/pos-stock-api/internal/domain/repository"
)

// DirectoryUseCase lecturas del directorio de productos y ubicaciones que la
// capa HTTP expone junto al núcleo de stock. Solo consultas, sin efectos.
type DirectoryUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewDirectoryUseCase construye el caso de uso.
func NewDirectoryUseCase(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *DirectoryUseCase {
	return &DirectoryUseCase{productRepo: productRepo, locationRepo: locationRepo}
}

// GetProduct producto por ID.
func (uc *DirectoryUseCase) GetProduct(id int64) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts catálogo paginado.
func (uc *DirectoryUseCase) ListProducts(limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// ListLocations ubicaciones de un negocio.
func (uc *DirectoryUseCase) ListLocations(businessID int64) ([]*entity.Location, error) {
	return uc.locationRepo.ListByBusiness(businessID)
}
