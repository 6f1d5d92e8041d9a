package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/api/dto"
	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/service"
	apperrors "github.com/spec-kit/token-service/pkg/util"
)

// TokensHandler exposes the token obtain and refresh endpoints.
type TokensHandler struct {
	auth *service.AuthService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(authService *service.AuthService) *TokensHandler {
	return &TokensHandler{auth: authService}
}

// Obtain handles POST /token.
func (h *TokensHandler) Obtain(c *fiber.Ctx) error {
	var req dto.TokenObtainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	_, pair, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.NewUnauthorized("invalid_credentials")
		case errors.Is(err, service.ErrLoginRateLimited):
			return apperrors.NewTooManyRequests("too many login attempts")
		default:
			return apperrors.MapError(err)
		}
	}

	return c.JSON(dto.TokenPairResponse{
		Access:           pair.Access,
		Refresh:          pair.Refresh,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
}

// Refresh handles POST /token/refresh.
func (h *TokensHandler) Refresh(c *fiber.Ctx) error {
	var req dto.TokenRefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	access, expiresAt, err := h.auth.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return mapRefreshError(err)
	}

	return c.JSON(dto.AccessTokenResponse{Access: access, ExpiresAt: expiresAt})
}

// mapRefreshError keeps the decode failure kinds distinct on the wire: a
// missing or wrong-type token is a bad request, an invalid or expired token
// is unauthorized, an unknown subject is not found.
func mapRefreshError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingRefreshToken):
		return apperrors.NewValidationError("refresh token required", nil)
	case errors.Is(err, auth.ErrWrongTokenType):
		return apperrors.NewValidationError("token is not a refresh token", nil)
	case errors.Is(err, auth.ErrSubjectNotFound):
		return apperrors.NewNotFound("user", nil)
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.NewUnauthorized("token_expired")
	case errors.Is(err, auth.ErrSignatureInvalid):
		return apperrors.NewUnauthorized("signature_invalid")
	case errors.Is(err, auth.ErrTokenMalformed):
		return apperrors.NewUnauthorized("token_malformed")
	case errors.Is(err, auth.ErrMissingSubject):
		return apperrors.NewUnauthorized("missing_subject")
	default:
		return apperrors.MapError(err)
	}
}
