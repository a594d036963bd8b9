package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-stock-api/internal/application/directory"
	"github.com/jhoicas/pos-stock-api/internal/application/dto"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// DirectoryHandler lecturas del directorio de productos y ubicaciones
// (protegido).
type DirectoryHandler struct {
	uc *directory.DirectoryUseCase
}

// NewDirectoryHandler construye el handler.
func NewDirectoryHandler(uc *directory.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

func productResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		AlertQuantity: p.AlertQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// GetProduct godoc
// @Summary      Producto por ID
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *DirectoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	product, err := h.uc.GetProduct(int64(id))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(productResponse(product))
}

// ListProducts godoc
// @Summary      Catálogo de productos paginado
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.ProductResponse
// @Router       /api/products [get]
func (h *DirectoryHandler) ListProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	products, err := h.uc.ListProducts(page.Limit, page.Offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	return c.JSON(out)
}

// ListLocations godoc
// @Summary      Ubicaciones de un negocio
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        business_id  query  int  false  "ID del negocio (defecto 1)"
// @Success      200  {array}   dto.LocationResponse
// @Router       /api/locations [get]
func (h *DirectoryHandler) ListLocations(c *fiber.Ctx) error {
	businessID := int64(c.QueryInt("business_id", 1))
	locations, err := h.uc.ListLocations(businessID)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.LocationResponse{
			ID:         l.ID,
			BusinessID: l.BusinessID,
			Name:       l.Name,
			CreatedAt:  l.CreatedAt,
		})
	}
	return c.JSON(out)
}
