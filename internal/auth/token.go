package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// Claims describes the JWT payload. Subject, issue and expiry times live in
// the registered claims; the token type rides along as a custom claim so a
// refresh token can never be mistaken for an access token.
type Claims struct {
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// SigningConfig is the immutable signing material shared by codec and
// issuer. Built once at startup from configuration.
type SigningConfig struct {
	SecretKey  string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec encodes and decodes signed tokens.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewCodec validates the signing configuration and builds a codec. An empty
// secret or an unsupported algorithm is a startup-time error, not a per-call
// one.
func NewCodec(cfg SigningConfig) (*Codec, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("signing secret must not be empty")
	}

	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	return &Codec{secret: []byte(cfg.SecretKey), method: method, now: time.Now}, nil
}

// Encode signs the claims into a compact token string.
func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.secret)
}

// Decode parses the token, verifies the signature and enforces expiry.
// Failures are classified into exactly one of ErrTokenMalformed,
// ErrSignatureInvalid and ErrTokenExpired.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classifyDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
