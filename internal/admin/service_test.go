package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community/internal/apperr"
	"community/internal/auth"
)

type mockStore struct {
	insert             func(ctx context.Context, email, passwordHash, role string) (*Account, error)
	getByEmail         func(ctx context.Context, email string) (*Account, error)
	saveRefreshToken   func(ctx context.Context, adminID, token string, expiresAt time.Time) error
	getRefreshToken    func(ctx context.Context, token string) (string, error)
	revokeRefreshToken func(ctx context.Context, token string) error
}

func (m *mockStore) Insert(ctx context.Context, email, passwordHash, role string) (*Account, error) {
	return m.insert(ctx, email, passwordHash, role)
}
func (m *mockStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockStore) SaveRefreshToken(ctx context.Context, adminID, token string, expiresAt time.Time) error {
	return m.saveRefreshToken(ctx, adminID, token, expiresAt)
}
func (m *mockStore) GetRefreshToken(ctx context.Context, token string) (string, error) {
	return m.getRefreshToken(ctx, token)
}
func (m *mockStore) RevokeRefreshToken(ctx context.Context, token string) error {
	return m.revokeRefreshToken(ctx, token)
}

func newTestService(store Store) *Service {
	return NewService(store, "test-issuer", "test-key", 15*time.Minute, 24*time.Hour)
}

func TestBootstrapCreatesMissingAccount(t *testing.T) {
	inserted := false
	store := &mockStore{
		getByEmail: func(ctx context.Context, email string) (*Account, error) {
			assert.Equal(t, "root@example.org", email)
			return nil, nil
		},
		insert: func(ctx context.Context, email, passwordHash, role string) (*Account, error) {
			inserted = true
			assert.Equal(t, "admin", role)
			assert.True(t, auth.CheckPassword(passwordHash, "s3cret"))
			return &Account{ID: "a1", Email: email, Role: role}, nil
		},
	}

	err := newTestService(store).Bootstrap(context.Background(), "Root@Example.org", "s3cret")
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestBootstrapSkipsExistingAccount(t *testing.T) {
	store := &mockStore{
		getByEmail: func(ctx context.Context, email string) (*Account, error) {
			return &Account{ID: "a1", Email: email}, nil
		},
		insert: func(ctx context.Context, email, passwordHash, role string) (*Account, error) {
			t.Fatal("insert should not be called")
			return nil, nil
		},
	}
	require.NoError(t, newTestService(store).Bootstrap(context.Background(), "root@example.org", "s3cret"))
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	acct := &Account{ID: "a1", Email: "root@example.org", PasswordHash: hash, Role: "admin"}

	var savedToken string
	store := &mockStore{
		getByEmail: func(ctx context.Context, email string) (*Account, error) {
			if email == acct.Email {
				return acct, nil
			}
			return nil, nil
		},
		saveRefreshToken: func(ctx context.Context, adminID, token string, expiresAt time.Time) error {
			assert.Equal(t, "a1", adminID)
			savedToken = token
			return nil
		},
	}
	svc := newTestService(store)

	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		got, tokens, err := svc.Login(context.Background(), " Root@Example.org ", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "a1", got.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, tokens.RefreshToken, savedToken)

		claims, err := auth.Parse(tokens.AccessToken, "test-key", "test-issuer")
		require.NoError(t, err)
		assert.Equal(t, "a1", claims.Subject)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "root@example.org", "wrong")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.org", "correct-horse")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestRefresh(t *testing.T) {
	pair, err := auth.Issue("a1", "admin", "test-issuer", "test-key", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	revoked := []string{}
	store := &mockStore{
		getRefreshToken: func(ctx context.Context, token string) (string, error) {
			if token == pair.RefreshToken {
				return "a1", nil
			}
			return "", nil
		},
		saveRefreshToken: func(ctx context.Context, adminID, token string, expiresAt time.Time) error {
			return nil
		},
		revokeRefreshToken: func(ctx context.Context, token string) error {
			revoked = append(revoked, token)
			return nil
		},
	}
	svc := newTestService(store)

	t.Run("rotates a live token", func(t *testing.T) {
		tokens, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Contains(t, revoked, pair.RefreshToken)
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "bogus")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}
