package mocks

import (
	"context"

	"github.com/you/regwizard/domain"
)

// MockVerificationService implements domain.VerificationService for testing.
type MockVerificationService struct {
	SendFunc     func(ctx context.Context, phone string) (string, error)
	ValidateFunc func(ctx context.Context, phone, code string) error

	SentTo []string
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

// Send issues a verification code
func (m *MockVerificationService) Send(ctx context.Context, phone string) (string, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone)
	}
	m.SentTo = append(m.SentTo, phone)
	return "123456", nil
}

// Validate checks a submitted code
func (m *MockVerificationService) Validate(ctx context.Context, phone, code string) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, phone, code)
	}
	if code == "123456" {
		return nil
	}
	return domain.ErrCodeInvalid
}

// MockSuggestionService implements domain.SuggestionService for testing.
type MockSuggestionService struct {
	GenerateFunc func(ctx context.Context, baseEmail string, count int) ([]string, error)
}

// NewMockSuggestionService creates a new MockSuggestionService with default behaviors
func NewMockSuggestionService() *MockSuggestionService {
	return &MockSuggestionService{}
}

// Generate produces candidate emails
func (m *MockSuggestionService) Generate(ctx context.Context, baseEmail string, count int) ([]string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, baseEmail, count)
	}
	return []string{}, nil
}

// MockPasswordService implements domain.PasswordService for testing.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

// Verify compares a hash against a password
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed:"+password
}

// MockNotificationService implements domain.NotificationService for testing.
type MockNotificationService struct {
	SendSMSFunc func(to, message string) error

	Sent []string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS records the outbound message
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.Sent = append(m.Sent, to)
	return nil
}

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateFunc func(accountID uint, email string) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate signs a dashboard token
func (m *MockTokenService) Generate(accountID uint, email string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(accountID, email)
	}
	return "test-token", nil
}

// Validate checks a dashboard token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	if token == "test-token" {
		return &domain.TokenClaims{AccountID: 1, Email: "user@example.com"}, nil
	}
	return nil, domain.ErrTokenInvalid
}
