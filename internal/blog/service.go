package blog

import (
	"context"
	"strings"

	"community/internal/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, p Post) (Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, status string) ([]Post, error)
	UpdateContent(ctx context.Context, id, title, slug, body, coverURL string) error
	SetStatus(ctx context.Context, id, status, reviewerNote string) error
}

// Service runs the blog review workflow.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateDraft adds a new draft post for an author.
func (s *Service) CreateDraft(ctx context.Context, authorID, title, body, coverURL string) (Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Post{}, apperr.New(apperr.CodeValidation, "title is required")
	}
	slug := Slugify(title)
	if existing, err := s.store.GetBySlug(ctx, slug); err != nil {
		return Post{}, err
	} else if existing != nil {
		return Post{}, apperr.New(apperr.CodeConflict, "a post with this slug already exists")
	}
	return s.store.Insert(ctx, Post{
		Title:    title,
		Slug:     slug,
		Body:     body,
		CoverURL: coverURL,
		AuthorID: authorID,
		Status:   StatusDraft,
	})
}

// Get returns a post by id.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p == nil {
		return Post{}, apperr.New(apperr.CodeNotFound, "post not found")
	}
	return *p, nil
}

// Published returns published posts for the public listing.
func (s *Service) Published(ctx context.Context) ([]Post, error) {
	return s.store.List(ctx, StatusPublished)
}

// List returns posts filtered by status, or all when status is empty.
func (s *Service) List(ctx context.Context, status string) ([]Post, error) {
	return s.store.List(ctx, status)
}

// UpdateDraft edits a post's content. Published posts are immutable.
func (s *Service) UpdateDraft(ctx context.Context, id, title, body, coverURL string) (Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.Status == StatusPublished {
		return Post{}, apperr.New(apperr.CodeConflict, "published posts cannot be edited")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Post{}, apperr.New(apperr.CodeValidation, "title is required")
	}
	if err := s.store.UpdateContent(ctx, id, title, Slugify(title), body, coverURL); err != nil {
		return Post{}, err
	}
	return s.Get(ctx, id)
}

// Transition moves a post through the review workflow.
func (s *Service) Transition(ctx context.Context, id, to, reviewerNote string) (Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if !ValidTransition(p.Status, to) {
		return Post{}, apperr.New(apperr.CodeValidation, "cannot move post from "+p.Status+" to "+to)
	}
	if to == StatusRejected && strings.TrimSpace(reviewerNote) == "" {
		return Post{}, apperr.New(apperr.CodeValidation, "a reviewer note is required to reject")
	}
	if err := s.store.SetStatus(ctx, id, to, reviewerNote); err != nil {
		return Post{}, err
	}
	return s.Get(ctx, id)
}
