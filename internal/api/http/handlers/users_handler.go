package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/dto"
	"github.com/spec-kit/token-service/internal/service"
	apperrors "github.com/spec-kit/token-service/pkg/util"
)

// UsersHandler exposes account registration.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, pair, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return apperrors.NewConflict("username already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserResponse{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
			},
			"auth": dto.TokenPairResponse{
				Access:           pair.Access,
				Refresh:          pair.Refresh,
				AccessExpiresAt:  pair.AccessExpiresAt,
				RefreshExpiresAt: pair.RefreshExpiresAt,
			},
		},
	})
}
