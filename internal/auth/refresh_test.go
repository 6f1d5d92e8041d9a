package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshFlow(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	store := newFakeUserStore("7")
	flow := NewRefreshFlow(codec, issuer, store)

	refreshToken, _, err := issuer.IssueRefreshToken("7")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	accessToken, _, err := issuer.IssueAccessToken("7")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	unknownSubject, _, err := issuer.IssueRefreshToken("no-such-user")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "missing token", token: "", wantErr: ErrMissingRefreshToken},
		{name: "garbage token", token: "not-a-jwt", wantErr: ErrTokenMalformed},
		{name: "access token rejected", token: accessToken, wantErr: ErrWrongTokenType},
		{name: "unknown subject", token: unknownSubject, wantErr: ErrSubjectNotFound},
		{name: "valid refresh token", token: refreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, expiresAt, err := flow.Refresh(context.Background(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Refresh error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			if access == "" || expiresAt.IsZero() {
				t.Fatal("expected a new access token with expiry")
			}
		})
	}
}

func TestRefreshFlowExpiredToken(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	issuer.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, _, err := issuer.IssueRefreshToken("7")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	flow := NewRefreshFlow(codec, NewIssuer(codec, SigningConfig{}), newFakeUserStore("7"))
	if _, _, err := flow.Refresh(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Refresh(expired) error = %v, want ErrTokenExpired", err)
	}
}

// A refreshed access token must authenticate through the gate for the same
// subject.
func TestRefreshedAccessTokenAuthenticates(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	store := newFakeUserStore("7")
	flow := NewRefreshFlow(codec, issuer, store)
	gate := NewGate(codec, store)

	refreshToken, _, err := issuer.IssueRefreshToken("7")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	access, _, err := flow.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	user, claims, err := gate.Authenticate(context.Background(), "Bearer "+access)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != "7" || claims.Subject != "7" {
		t.Fatalf("authenticated subject = %q/%q, want 7", user.ID, claims.Subject)
	}

	// The original refresh token is untouched and still works.
	if _, _, err := flow.Refresh(context.Background(), refreshToken); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
}
