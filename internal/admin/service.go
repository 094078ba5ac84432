package admin

import (
	"context"
	"strings"
	"time"

	"community/internal/apperr"
	"community/internal/auth"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, email, passwordHash, role string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	SaveRefreshToken(ctx context.Context, adminID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (string, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// Service handles staff authentication.
type Service struct {
	store      Store
	issuer     string
	signingKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(store Store, issuer, signingKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:      store,
		issuer:     issuer,
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Bootstrap creates the initial admin account when none exists for the email.
// Safe to call on every startup.
func (s *Service) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.store.Insert(ctx, email, hash, "admin")
	return err
}

// Login verifies credentials and issues a token pair. The refresh token is
// persisted so it can be revoked later.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	acct, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if acct == nil || !auth.CheckPassword(acct.PasswordHash, password) {
		return nil, auth.TokenPair{}, apperr.New(apperr.CodeForbidden, "invalid credentials")
	}

	tokens, err := auth.Issue(acct.ID, acct.Role, s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if err := s.store.SaveRefreshToken(ctx, acct.ID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		return nil, auth.TokenPair{}, err
	}
	return acct, tokens, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the old
// one. Unknown, revoked, and expired tokens are all rejected the same way.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	adminID, err := s.store.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if adminID == "" {
		return auth.TokenPair{}, apperr.New(apperr.CodeForbidden, "refresh token rejected")
	}

	claims, err := auth.Parse(refreshToken, s.signingKey, s.issuer)
	if err != nil {
		return auth.TokenPair{}, apperr.New(apperr.CodeForbidden, "refresh token rejected")
	}

	tokens, err := auth.Issue(adminID, claims.Role, s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.store.SaveRefreshToken(ctx, adminID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		return auth.TokenPair{}, err
	}
	_ = s.store.RevokeRefreshToken(ctx, refreshToken)
	return tokens, nil
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.store.RevokeRefreshToken(ctx, refreshToken)
}
