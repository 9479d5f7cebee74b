package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/regwizard/domain"
)

// MockDraftRepository implements domain.DraftRepository for testing. With no
// func fields set it behaves as an in-memory store.
type MockDraftRepository struct {
	GetOrCreateFunc func(ctx context.Context, token string) (*domain.Draft, error)
	SaveFunc        func(ctx context.Context, draft *domain.Draft) error
	DeleteFunc      func(ctx context.Context, token string) error

	Drafts map[string]*domain.Draft
}

// NewMockDraftRepository creates a new MockDraftRepository with default behaviors
func NewMockDraftRepository() *MockDraftRepository {
	return &MockDraftRepository{Drafts: map[string]*domain.Draft{}}
}

// GetOrCreate resolves or allocates a draft
func (m *MockDraftRepository) GetOrCreate(ctx context.Context, token string) (*domain.Draft, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, token)
	}
	if draft, ok := m.Drafts[token]; ok {
		return draft, nil
	}
	return &domain.Draft{Token: uuid.NewString(), LastUpdated: time.Now().UTC()}, nil
}

// Save persists the draft
func (m *MockDraftRepository) Save(ctx context.Context, draft *domain.Draft) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, draft)
	}
	draft.LastUpdated = time.Now().UTC()
	m.Drafts[draft.Token] = draft
	return nil
}

// Delete removes the draft
func (m *MockDraftRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	delete(m.Drafts, token)
	return nil
}
