package blog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community/internal/apperr"
)

type mockStore struct {
	insertFunc        func(ctx context.Context, p Post) (Post, error)
	getFunc           func(ctx context.Context, id string) (*Post, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*Post, error)
	listFunc          func(ctx context.Context, status string) ([]Post, error)
	updateContentFunc func(ctx context.Context, id, title, slug, body, coverURL string) error
	setStatusFunc     func(ctx context.Context, id, status, reviewerNote string) error
}

func (m *mockStore) Insert(ctx context.Context, p Post) (Post, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, p)
	}
	return p, nil
}

func (m *mockStore) Get(ctx context.Context, id string) (*Post, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockStore) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockStore) List(ctx context.Context, status string) ([]Post, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockStore) UpdateContent(ctx context.Context, id, title, slug, body, coverURL string) error {
	if m.updateContentFunc != nil {
		return m.updateContentFunc(ctx, id, title, slug, body, coverURL)
	}
	return nil
}

func (m *mockStore) SetStatus(ctx context.Context, id, status, reviewerNote string) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status, reviewerNote)
	}
	return nil
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "march-recap-2026", Slugify("  March Recap 2026 "))
	assert.Equal(t, "a-b-c", Slugify("a---b___c"))
}

func TestValidTransition(t *testing.T) {
	assert.True(t, ValidTransition(StatusDraft, StatusInReview))
	assert.True(t, ValidTransition(StatusInReview, StatusPublished))
	assert.True(t, ValidTransition(StatusInReview, StatusRejected))
	assert.True(t, ValidTransition(StatusRejected, StatusInReview))
	assert.False(t, ValidTransition(StatusDraft, StatusPublished))
	assert.False(t, ValidTransition(StatusPublished, StatusDraft))
	assert.False(t, ValidTransition(StatusPublished, StatusInReview))
}

func TestCreateDraftRejectsDuplicateSlug(t *testing.T) {
	store := &mockStore{
		getBySlugFunc: func(ctx context.Context, slug string) (*Post, error) {
			return &Post{ID: "p1", Slug: slug}, nil
		},
	}
	svc := NewService(store)
	_, err := svc.CreateDraft(context.Background(), "a1", "Hello World", "", "")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestTransition(t *testing.T) {
	postIn := func(status string) func(ctx context.Context, id string) (*Post, error) {
		called := false
		return func(ctx context.Context, id string) (*Post, error) {
			// Second Get reflects the transition already applied.
			if called {
				return &Post{ID: id, Status: StatusPublished}, nil
			}
			called = true
			return &Post{ID: id, Status: status}, nil
		}
	}

	t.Run("in_review can publish", func(t *testing.T) {
		var setTo string
		store := &mockStore{
			getFunc: postIn(StatusInReview),
			setStatusFunc: func(ctx context.Context, id, status, reviewerNote string) error {
				setTo = status
				return nil
			},
		}
		p, err := NewService(store).Transition(context.Background(), "p1", StatusPublished, "")
		require.NoError(t, err)
		assert.Equal(t, StatusPublished, setTo)
		assert.Equal(t, StatusPublished, p.Status)
	})

	t.Run("draft cannot publish directly", func(t *testing.T) {
		store := &mockStore{getFunc: postIn(StatusDraft)}
		_, err := NewService(store).Transition(context.Background(), "p1", StatusPublished, "")
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("reject needs a note", func(t *testing.T) {
		store := &mockStore{getFunc: postIn(StatusInReview)}
		_, err := NewService(store).Transition(context.Background(), "p1", StatusRejected, " ")
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})
}

func TestUpdateDraftRefusesPublished(t *testing.T) {
	store := &mockStore{
		getFunc: func(ctx context.Context, id string) (*Post, error) {
			return &Post{ID: id, Status: StatusPublished}, nil
		},
	}
	_, err := NewService(store).UpdateDraft(context.Background(), "p1", "New title", "", "")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}
