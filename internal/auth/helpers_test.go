package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

const testSecret = "unit-test-secret"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(SigningConfig{SecretKey: testSecret, Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func newTestIssuer(t *testing.T, codec *Codec) *Issuer {
	t.Helper()
	return NewIssuer(codec, SigningConfig{
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

// fakeUserStore is an in-memory UserStore signalling absence the way the
// pgx-backed repository does.
type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore(ids ...string) *fakeUserStore {
	store := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, id := range ids {
		store.users[id] = &domain.User{
			ID:       id,
			Username: "user-" + id,
			Status:   domain.UserStatusActive,
		}
	}
	return store
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}
