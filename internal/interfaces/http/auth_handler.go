package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-stock-api/internal/application/dto"
	"github.com/jhoicas/pos-stock-api/internal/application/session"
	"github.com/jhoicas/pos-stock-api/internal/domain"
	"github.com/jhoicas/pos-stock-api/internal/domain/entity"
)

// AuthHandler maneja login, refresh y logout de sesiones.
type AuthHandler struct {
	manager   *session.Manager
	authority *session.Authority
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(manager *session.Manager, authority *session.Authority) *AuthHandler {
	return &AuthHandler{manager: manager, authority: authority}
}

func sessionResponse(tokenString string, t *entity.SessionToken) dto.SessionResponse {
	return dto.SessionResponse{
		Token:     tokenString,
		UserID:    t.UserID,
		Username:  t.Username,
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	tokenString, sessionToken, err := h.manager.Login(in.Username, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(sessionResponse(tokenString, sessionToken))
}

// Refresh godoc
// @Summary      Renovar el token de sesión
// @Description  Emite un token nuevo y revoca el presentado. El token anterior
//               deja de ser válido de inmediato.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	newTokenString, newToken := h.authority.Refresh(GetToken(c))
	if newToken == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o revocado"})
	}
	return c.JSON(sessionResponse(newTokenString, newToken))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Revoca el token presentado; validaciones posteriores fallan.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authority.Revoke(GetToken(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "sesión cerrada"})
}
