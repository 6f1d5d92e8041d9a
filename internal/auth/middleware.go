package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/domain"
	apperrors "github.com/spec-kit/token-service/pkg/util"
)

const principalKey = "auth_principal"

const challengeHeader = `Bearer realm="api"`

// Principal represents the authenticated caller together with the raw token
// claims, so handlers can inspect token metadata such as the issue time.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// Middleware enforces bearer authentication on protected routes.
type Middleware struct {
	gate *Gate
}

// NewMiddleware constructs middleware over the gate.
func NewMiddleware(gate *Gate) *Middleware {
	return &Middleware{gate: gate}
}

// Handle rejects unauthenticated requests with 401 and a bearer challenge.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	user, claims, err := m.gate.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		reason, ok := failureReason(err)
		if !ok {
			return apperrors.MapError(err)
		}
		c.Set(fiber.HeaderWWWAuthenticate, challengeHeader)
		return apperrors.NewUnauthorized(reason)
	}
	if user == nil {
		// No bearer credential presented; on a protected route that is a
		// plain unauthenticated request.
		c.Set(fiber.HeaderWWWAuthenticate, challengeHeader)
		return apperrors.NewUnauthorized("authentication credentials were not provided")
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// failureReason maps authentication failures to short machine-readable
// reasons safe to return to clients. Tokens never appear in these.
func failureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header", true
	case errors.Is(err, ErrTokenMalformed):
		return "token_malformed", true
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid", true
	case errors.Is(err, ErrTokenExpired):
		return "token_expired", true
	case errors.Is(err, ErrWrongTokenType):
		return "wrong_token_type", true
	case errors.Is(err, ErrMissingSubject):
		return "missing_subject", true
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found", true
	default:
		return "", false
	}
}
