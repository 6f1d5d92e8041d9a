package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/events"
	"github.com/spec-kit/token-service/internal/ratelimit"
	"github.com/spec-kit/token-service/internal/repository"
)

// Failure kinds surfaced by the issuance entry points.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrLoginRateLimited   = errors.New("too many login attempts")
)

// AuthService coordinates registration, credential login and token refresh.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.Codec
	issuer     *auth.Issuer
	refresher  *auth.RefreshFlow
	limiter    *ratelimit.LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *ratelimit.LoginLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service. Signing misconfiguration is returned as
// an error so the process can refuse to start.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	signing := auth.SigningConfig{
		SecretKey:  cfg.Auth.SecretKey,
		Algorithm:  cfg.Auth.SigningAlgorithm,
		AccessTTL:  cfg.Auth.AccessTTL(),
		RefreshTTL: cfg.Auth.RefreshTTL(),
	}

	codec, err := auth.NewCodec(signing)
	if err != nil {
		return nil, err
	}
	issuer := auth.NewIssuer(codec, signing)

	return &AuthService{
		users:      deps.UserRepo,
		codec:      codec,
		issuer:     issuer,
		refresher:  auth.NewRefreshFlow(codec, issuer, deps.UserRepo),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Register creates a new account and returns it with an initial token pair.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, *domain.TokenPair, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, nil, ErrUsernameTaken
	} else if err != pgx.ErrNoRows {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, nil)
	return user, pair, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	if !s.limiter.Allow(ctx, username) {
		return nil, nil, ErrLoginRateLimited
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.publishLoginFailed(ctx, username, "unknown_username")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publishLoginFailed(ctx, username, "password_mismatch")
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.limiter.Reset(ctx, username)
	s.publish(ctx, events.EventLoginSucceeded, user.ID, nil)
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	access, expiresAt, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	s.publish(ctx, events.EventTokenRefreshed, "", events.TokenRefreshedPayload{AccessExpiresAt: expiresAt})
	return access, expiresAt, nil
}

// Codec exposes the token codec for middleware wiring.
func (s *AuthService) Codec() *auth.Codec {
	return s.codec
}

// Issuer exposes the token issuer.
func (s *AuthService) Issuer() *auth.Issuer {
	return s.issuer
}

func (s *AuthService) issuePair(subjectID string) (*domain.TokenPair, error) {
	access, accessExp, err := s.issuer.IssueAccessToken(subjectID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.issuer.IssueRefreshToken(subjectID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func (s *AuthService) publishLoginFailed(ctx context.Context, username, reason string) {
	s.publish(ctx, events.EventLoginFailed, "", events.LoginFailedPayload{Username: username, Reason: reason})
}
