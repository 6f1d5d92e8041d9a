package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// RefreshFlow exchanges a valid refresh token for a new access token. The
// refresh token itself is neither re-issued nor tracked; it stays valid
// until its own expiry.
type RefreshFlow struct {
	codec  *Codec
	issuer *Issuer
	users  UserStore
}

// NewRefreshFlow constructs the flow.
func NewRefreshFlow(codec *Codec, issuer *Issuer, users UserStore) *RefreshFlow {
	return &RefreshFlow{codec: codec, issuer: issuer, users: users}
}

// Refresh validates the refresh token and issues a fresh access token.
func (f *RefreshFlow) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, ErrMissingRefreshToken
	}

	claims, err := f.codec.Decode(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	if claims.TokenType != domain.TokenTypeRefresh {
		return "", time.Time{}, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	if _, err := f.users.GetByID(ctx, claims.Subject); err != nil {
		if err == pgx.ErrNoRows {
			return "", time.Time{}, ErrSubjectNotFound
		}
		return "", time.Time{}, err
	}

	return f.issuer.IssueAccessToken(claims.Subject)
}
