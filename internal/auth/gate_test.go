package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/token-service/internal/domain"
)

func TestGateAuthenticate(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	store := newFakeUserStore("42", "7")
	gate := NewGate(codec, store)

	accessToken, _, err := issuer.IssueAccessToken("42")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	refreshToken, _, err := issuer.IssueRefreshToken("42")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	unknownSubject, _, err := issuer.IssueAccessToken("no-such-user")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	emptySubject, _, err := issuer.IssueAccessToken("")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	tests := []struct {
		name          string
		header        string
		wantErr       error
		wantSubject   string
		wantAttempted bool
	}{
		{name: "missing header passes through", header: ""},
		{name: "different scheme passes through", header: "Basic abc123"},
		{name: "lowercase scheme passes through", header: "bearer " + accessToken},
		{name: "single field is malformed", header: "Bearer", wantErr: ErrMalformedHeader},
		{name: "three fields is malformed", header: "Bearer a b", wantErr: ErrMalformedHeader},
		{name: "garbage token", header: "Bearer not-a-jwt", wantErr: ErrTokenMalformed},
		{name: "refresh token rejected", header: "Bearer " + refreshToken, wantErr: ErrWrongTokenType},
		{name: "empty subject rejected", header: "Bearer " + emptySubject, wantErr: ErrMissingSubject},
		{name: "unknown subject rejected", header: "Bearer " + unknownSubject, wantErr: ErrSubjectNotFound},
		{name: "valid access token", header: "Bearer " + accessToken, wantSubject: "42", wantAttempted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, claims, err := gate.Authenticate(context.Background(), tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if !tt.wantAttempted {
				if user != nil || claims != nil {
					t.Fatalf("expected pass-through, got user=%v claims=%v", user, claims)
				}
				return
			}
			if user == nil || claims == nil {
				t.Fatal("expected authenticated result")
			}
			if user.ID != tt.wantSubject {
				t.Errorf("user ID = %q, want %q", user.ID, tt.wantSubject)
			}
			if claims.Subject != tt.wantSubject {
				t.Errorf("claims subject = %q, want %q", claims.Subject, tt.wantSubject)
			}
			if claims.IssuedAt == nil || claims.ExpiresAt == nil {
				t.Error("expected issue and expiry claims to be exposed")
			}
		})
	}
}

func TestGateExpiredAccessToken(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	issuer.now = func() time.Time { return time.Now().Add(-10 * time.Minute) }

	token, _, err := issuer.IssueAccessToken("42")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	gate := NewGate(codec, newFakeUserStore("42"))
	_, _, err = gate.Authenticate(context.Background(), "Bearer "+token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Authenticate(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestGateSingleLookupAfterDecode(t *testing.T) {
	codec := newTestCodec(t)
	issuer := newTestIssuer(t, codec)
	store := &countingUserStore{fakeUserStore: newFakeUserStore("42")}
	gate := NewGate(codec, store)

	if _, _, err := gate.Authenticate(context.Background(), "Bearer not-a-jwt"); err == nil {
		t.Fatal("expected decode failure")
	}
	if store.calls != 0 {
		t.Fatalf("store consulted %d times before decode succeeded", store.calls)
	}

	token, _, err := issuer.IssueAccessToken("42")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, _, err := gate.Authenticate(context.Background(), "Bearer "+token); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store consulted %d times, want 1", store.calls)
	}
}

type countingUserStore struct {
	*fakeUserStore
	calls int
}

func (c *countingUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	c.calls++
	return c.fakeUserStore.GetByID(ctx, id)
}
