package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/auth"
	apperrors "github.com/spec-kit/token-service/pkg/util"
)

// ProtectedHandler demonstrates a resource that requires a valid access token.
type ProtectedHandler struct{}

// NewProtectedHandler returns a new handler instance.
func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

// Greet handles GET /protected.
func (h *ProtectedHandler) Greet(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"message":   fmt.Sprintf("Hello, %s! This is protected data.", principal.User.Username),
		"issued_at": principal.Claims.IssuedAt,
	})
}
