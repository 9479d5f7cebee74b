package mocks

import (
	"context"

	"github.com/you/regwizard/domain"
)

// MockRegistrationService implements domain.RegistrationService for handler
// tests.
type MockRegistrationService struct {
	ResumeDraftFunc         func(ctx context.Context, token string) (*domain.Draft, error)
	SubmitNameFunc          func(ctx context.Context, draft *domain.Draft, firstName, lastName string) error
	SubmitBirthdayFunc      func(ctx context.Context, draft *domain.Draft, month string, day, year int, gender domain.Gender) error
	EmailChoicesFunc        func(ctx context.Context, draft *domain.Draft, count int) (string, []string, error)
	SubmitEmailFunc         func(ctx context.Context, draft *domain.Draft, email string) error
	SubmitPasswordFunc      func(ctx context.Context, draft *domain.Draft, password, confirm string) error
	SubmitPhoneFunc         func(ctx context.Context, draft *domain.Draft, countryCode, phoneNumber string) error
	VerifyPhoneFunc         func(ctx context.Context, draft *domain.Draft, code string) error
	SubmitRecoveryEmailFunc func(ctx context.Context, draft *domain.Draft, recoveryEmail string) error
	AcceptTermsFunc         func(agree bool) error
	CommitFunc              func(ctx context.Context, draft *domain.Draft) (*domain.Account, error)
}

// NewMockRegistrationService creates a new MockRegistrationService with default behaviors
func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{}
}

func (m *MockRegistrationService) ResumeDraft(ctx context.Context, token string) (*domain.Draft, error) {
	if m.ResumeDraftFunc != nil {
		return m.ResumeDraftFunc(ctx, token)
	}
	return &domain.Draft{Token: "draft-token"}, nil
}

func (m *MockRegistrationService) SubmitName(ctx context.Context, draft *domain.Draft, firstName, lastName string) error {
	if m.SubmitNameFunc != nil {
		return m.SubmitNameFunc(ctx, draft, firstName, lastName)
	}
	return nil
}

func (m *MockRegistrationService) SubmitBirthday(ctx context.Context, draft *domain.Draft, month string, day, year int, gender domain.Gender) error {
	if m.SubmitBirthdayFunc != nil {
		return m.SubmitBirthdayFunc(ctx, draft, month, day, year, gender)
	}
	return nil
}

func (m *MockRegistrationService) EmailChoices(ctx context.Context, draft *domain.Draft, count int) (string, []string, error) {
	if m.EmailChoicesFunc != nil {
		return m.EmailChoicesFunc(ctx, draft, count)
	}
	return "base@example.com", []string{}, nil
}

func (m *MockRegistrationService) SubmitEmail(ctx context.Context, draft *domain.Draft, email string) error {
	if m.SubmitEmailFunc != nil {
		return m.SubmitEmailFunc(ctx, draft, email)
	}
	return nil
}

func (m *MockRegistrationService) SubmitPassword(ctx context.Context, draft *domain.Draft, password, confirm string) error {
	if m.SubmitPasswordFunc != nil {
		return m.SubmitPasswordFunc(ctx, draft, password, confirm)
	}
	return nil
}

func (m *MockRegistrationService) SubmitPhone(ctx context.Context, draft *domain.Draft, countryCode, phoneNumber string) error {
	if m.SubmitPhoneFunc != nil {
		return m.SubmitPhoneFunc(ctx, draft, countryCode, phoneNumber)
	}
	return nil
}

func (m *MockRegistrationService) VerifyPhone(ctx context.Context, draft *domain.Draft, code string) error {
	if m.VerifyPhoneFunc != nil {
		return m.VerifyPhoneFunc(ctx, draft, code)
	}
	return nil
}

func (m *MockRegistrationService) SubmitRecoveryEmail(ctx context.Context, draft *domain.Draft, recoveryEmail string) error {
	if m.SubmitRecoveryEmailFunc != nil {
		return m.SubmitRecoveryEmailFunc(ctx, draft, recoveryEmail)
	}
	return nil
}

func (m *MockRegistrationService) AcceptTerms(agree bool) error {
	if m.AcceptTermsFunc != nil {
		return m.AcceptTermsFunc(agree)
	}
	return nil
}

func (m *MockRegistrationService) Commit(ctx context.Context, draft *domain.Draft) (*domain.Account, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, draft)
	}
	return &domain.Account{ID: 1, Email: draft.Email}, nil
}
