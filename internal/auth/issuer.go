package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// Issuer builds and signs access and refresh tokens.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer builds an issuer over the given codec and lifetimes.
func NewIssuer(codec *Codec, cfg SigningConfig) *Issuer {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// IssueAccessToken signs a short-lived access token for the subject.
func (i *Issuer) IssueAccessToken(subjectID string) (string, time.Time, error) {
	return i.issue(subjectID, domain.TokenTypeAccess, i.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the subject.
func (i *Issuer) IssueRefreshToken(subjectID string) (string, time.Time, error) {
	return i.issue(subjectID, domain.TokenTypeRefresh, i.refreshTTL)
}

func (i *Issuer) issue(subjectID string, tokenType domain.TokenType, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
