package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/pkg/jwt"
)

// Locals keys para el sujeto autenticado en Fiber.
const (
	LocalSubjectID = "subject_id"
	LocalRole      = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el sujeto y su rol a
// c.Locals. El sujeto es un usuario emisor (roles user/admin) o un cliente del
// portal (rol client); las rutas restringen con RequireRole.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		subjectID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSubjectID, subjectID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados (después de AuthMiddleware).
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a esta ruta"})
	}
}

// RequireUser autoriza solo a usuarios emisores (user o admin).
func RequireUser() fiber.Handler {
	return RequireRole(jwt.RoleUser, jwt.RoleAdmin)
}

// RequireClient autoriza solo a clientes del portal.
func RequireClient() fiber.Handler {
	return RequireRole(jwt.RoleClient)
}

// GetSubjectID devuelve el ID del sujeto autenticado.
func GetSubjectID(c *fiber.Ctx) string {
	v := c.Locals(LocalSubjectID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol del sujeto autenticado.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID devuelve el ID del usuario emisor, o "" si el sujeto es un cliente.
func GetUserID(c *fiber.Ctx) string {
	role := GetRole(c)
	if role != jwt.RoleUser && role != jwt.RoleAdmin {
		return ""
	}
	return GetSubjectID(c)
}

// GetClientID devuelve el ID del cliente del portal, o "" si el sujeto es un
// usuario emisor.
func GetClientID(c *fiber.Ctx) string {
	if GetRole(c) != jwt.RoleClient {
		return ""
	}
	return GetSubjectID(c)
}
