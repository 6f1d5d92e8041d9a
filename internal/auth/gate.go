package auth

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// BearerScheme is the required keyword in the Authorization header. The
// comparison is case-sensitive, matching standard bearer conventions.
const BearerScheme = "Bearer"

// UserStore resolves a token subject to a known user. Implemented by
// repository.UserRepository; lookups signal absence with pgx.ErrNoRows.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate validates bearer access tokens and resolves their subjects.
type Gate struct {
	codec *Codec
	users UserStore
}

// NewGate constructs the authentication gate.
func NewGate(codec *Codec, users UserStore) *Gate {
	return &Gate{codec: codec, users: users}
}

// Authenticate maps an Authorization header value to a verified user and the
// raw claims. A (nil, nil, nil) return means no bearer credential was
// presented and another scheme may handle the request; any error means the
// credential was presented and rejected.
func (g *Gate) Authenticate(ctx context.Context, authHeader string) (*domain.User, *Claims, error) {
	if authHeader == "" {
		return nil, nil, nil
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 {
		return nil, nil, ErrMalformedHeader
	}
	if parts[0] != BearerScheme {
		return nil, nil, nil
	}

	claims, err := g.codec.Decode(parts[1])
	if err != nil {
		return nil, nil, err
	}

	if claims.TokenType != domain.TokenTypeAccess {
		return nil, nil, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return nil, nil, ErrMissingSubject
	}

	user, err := g.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrSubjectNotFound
		}
		return nil, nil, err
	}

	return user, claims, nil
}
