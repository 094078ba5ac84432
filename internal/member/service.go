package member

import (
	"context"
	"strings"
	"time"

	"community/internal/apperr"
	"community/internal/metrics"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, c Contributor) (Contributor, error)
	GetByEmail(ctx context.Context, email string) (*Contributor, error)
	GetByID(ctx context.Context, id string) (*Contributor, error)
	List(ctx context.Context) ([]Contributor, error)
	Deactivate(ctx context.Context, id string) error
	AddPoints(ctx context.Context, id string, delta int) error
	InsertCode(ctx context.Context, rc RedeemCode) (RedeemCode, error)
	GetCode(ctx context.Context, code string) (*RedeemCode, error)
	InsertRedemption(ctx context.Context, codeID, contributorID string, points int) (*Redemption, error)
}

// Service manages contributors and the point ledger.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a contributor.
func (s *Service) Register(ctx context.Context, name, email, studentID, cohort string) (Contributor, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || studentID == "" {
		return Contributor{}, apperr.New(apperr.CodeValidation, "name, email and student id are required")
	}
	if existing, err := s.store.GetByEmail(ctx, email); err != nil {
		return Contributor{}, err
	} else if existing != nil {
		return Contributor{}, apperr.New(apperr.CodeConflict, "email already registered")
	}
	return s.store.Insert(ctx, Contributor{Name: name, Email: email, StudentID: studentID, Cohort: cohort})
}

// Get returns a contributor by id.
func (s *Service) Get(ctx context.Context, id string) (Contributor, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Contributor{}, err
	}
	if c == nil {
		return Contributor{}, apperr.New(apperr.CodeNotFound, "contributor not found")
	}
	return *c, nil
}

// FindByEmail returns a contributor by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (Contributor, error) {
	c, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return Contributor{}, err
	}
	if c == nil {
		return Contributor{}, apperr.New(apperr.CodeNotFound, "contributor not found")
	}
	return *c, nil
}

// List returns all contributors.
func (s *Service) List(ctx context.Context) ([]Contributor, error) {
	return s.store.List(ctx)
}

// Deactivate retires a contributor without deleting history.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Deactivate(ctx, id)
}

// CreateCode creates a redeem code.
func (s *Service) CreateCode(ctx context.Context, code string, points, maxUses int, expiresAt *time.Time) (RedeemCode, error) {
	code = strings.TrimSpace(code)
	if code == "" || points <= 0 {
		return RedeemCode{}, apperr.New(apperr.CodeValidation, "code and positive points are required")
	}
	return s.store.InsertCode(ctx, RedeemCode{Code: code, Points: points, MaxUses: maxUses, ExpiresAt: expiresAt})
}

// Redeem credits a code's points to the contributor matching email.
// Each contributor can use a given code once.
func (s *Service) Redeem(ctx context.Context, email, codeValue string) (*Redemption, error) {
	contributor, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !contributor.Active {
		return nil, apperr.New(apperr.CodeValidation, "contributor is deactivated")
	}
	code, err := s.store.GetCode(ctx, strings.TrimSpace(codeValue))
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, apperr.New(apperr.CodeNotFound, "unknown code")
	}
	if code.ExpiresAt != nil && time.Now().After(*code.ExpiresAt) {
		return nil, apperr.New(apperr.CodeExpired, "code expired")
	}
	if code.MaxUses > 0 && code.UsedCount >= code.MaxUses {
		return nil, apperr.New(apperr.CodeValidation, "code exhausted")
	}
	red, err := s.store.InsertRedemption(ctx, code.ID, contributor.ID, code.Points)
	if err != nil {
		return nil, err
	}
	if red == nil {
		return nil, apperr.New(apperr.CodeConflict, "code already redeemed")
	}
	metrics.CodeRedemptions.Inc()
	return red, nil
}
