package mocks

import (
	"context"
	"strings"

	"github.com/you/regwizard/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing.
type MockAccountRepository struct {
	CreateFunc        func(ctx context.Context, account *domain.Account) error
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Account, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)

	Accounts []*domain.Account
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	for _, existing := range m.Accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return domain.ErrEmailTaken
		}
	}
	account.ID = uint(len(m.Accounts) + 1)
	m.Accounts = append(m.Accounts, account)
	return nil
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	for _, account := range m.Accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// ExistsByEmail reports whether an account with the email exists, ignoring case
func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	for _, account := range m.Accounts {
		if strings.EqualFold(account.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
