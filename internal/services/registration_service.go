package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/validation"
)

// RegistrationServiceImpl implements domain.RegistrationService: one Submit
// method per wizard step plus the terminal Commit. Field failures come back
// as domain.ValidationErrors and leave the draft untouched.
type RegistrationServiceImpl struct {
	draftRepo       domain.DraftRepository
	accountRepo     domain.AccountRepository
	verificationSvc domain.VerificationService
	suggestionSvc   domain.SuggestionService
	passwordSvc     domain.PasswordService
	emailDomain     string
	now             func() time.Time
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	draftRepo domain.DraftRepository,
	accountRepo domain.AccountRepository,
	verificationSvc domain.VerificationService,
	suggestionSvc domain.SuggestionService,
	passwordSvc domain.PasswordService,
	emailDomain string,
) domain.RegistrationService {
	return &RegistrationServiceImpl{
		draftRepo:       draftRepo,
		accountRepo:     accountRepo,
		verificationSvc: verificationSvc,
		suggestionSvc:   suggestionSvc,
		passwordSvc:     passwordSvc,
		emailDomain:     emailDomain,
		now:             time.Now,
	}
}

// ResumeDraft implements domain.RegistrationService
func (s *RegistrationServiceImpl) ResumeDraft(ctx context.Context, token string) (*domain.Draft, error) {
	return s.draftRepo.GetOrCreate(ctx, token)
}

// SubmitName implements domain.RegistrationService
func (s *RegistrationServiceImpl) SubmitName(ctx context.Context, draft *domain.Draft, firstName, lastName string) error {
	errs := domain.ValidationErrors{}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if !validation.ValidName(firstName) {
		errs["first_name"] = "First name must contain only letters."
	}
	if !validation.ValidName(lastName) {
		errs["last_name"] = "Last name must contain only letters."
	}
	if len(errs) > 0 {
		return errs
	}

	draft.FirstName = firstName
	draft.LastName = lastName
	return s.draftRepo.Save(ctx, draft)
}

// SubmitBirthday implements domain.RegistrationService. The month arrives by
// name, the day is checked against the real calendar for that month and year
// and the resulting date must put the visitor at thirteen or older, with a
// birthday falling exactly today counting as having occurred.
func (s *RegistrationServiceImpl) SubmitBirthday(ctx context.Context, draft *domain.Draft, month string, day, year int, gender domain.Gender) error {
	errs := domain.ValidationErrors{}

	monthNum, ok := validation.MonthNumber(month)
	if !ok {
		errs["month"] = "Please select a valid month."
	} else {
		today := s.now()
		if year < 1900 || year > today.Year() {
			errs["year"] = "Please enter a valid year."
		}
		daysInMonth := validation.DaysInMonth(year, monthNum)
		if day < 1 || day > daysInMonth {
			errs["day"] = fmt.Sprintf("Please enter a valid day (1 to %d).", daysInMonth)
		}
		if len(errs) == 0 {
			dob := time.Date(year, monthNum, day, 0, 0, 0, 0, time.UTC)
			today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			if validation.Age(dob, today) < 13 {
				errs["year"] = "You must be at least 13 years old."
			} else if !gender.Valid() {
				errs["gender"] = "Please select a gender."
			} else {
				draft.DateOfBirth = &dob
				draft.Gender = gender
				return s.draftRepo.Save(ctx, draft)
			}
		}
	}
	if !gender.Valid() && errs["gender"] == "" {
		errs["gender"] = "Please select a gender."
	}
	return errs
}

// EmailChoices implements domain.RegistrationService
func (s *RegistrationServiceImpl) EmailChoices(ctx context.Context, draft *domain.Draft, count int) (string, []string, error) {
	base := fmt.Sprintf("%s.%s@%s",
		strings.ToLower(strings.TrimSpace(draft.FirstName)),
		strings.ToLower(strings.TrimSpace(draft.LastName)),
		s.emailDomain,
	)
	suggestions, err := s.suggestionSvc.Generate(ctx, base, count)
	if err != nil {
		return "", nil, err
	}
	return base, suggestions, nil
}

// SubmitEmail implements domain.RegistrationService. Uniqueness is checked
// again here even when the candidate came from a suggestion, since
// suggestions can go stale between GET and POST.
func (s *RegistrationServiceImpl) SubmitEmail(ctx context.Context, draft *domain.Draft, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !validation.ValidEmail(normalized) {
		return domain.ValidationErrors{"email": "Please enter a valid email address."}
	}

	taken, err := s.accountRepo.ExistsByEmail(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return domain.ValidationErrors{"email": "This email address is already taken. Please choose another."}
	}

	draft.Email = normalized
	return s.draftRepo.Save(ctx, draft)
}

// SubmitPassword implements domain.RegistrationService. The plaintext lives
// in the draft until Commit hashes it; it is never logged.
func (s *RegistrationServiceImpl) SubmitPassword(ctx context.Context, draft *domain.Draft, password, confirm string) error {
	errs := domain.ValidationErrors{}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters long."
	}
	if password != confirm {
		errs["confirm_password"] = "Passwords do not match."
	}
	if len(errs) > 0 {
		return errs
	}

	draft.Credential = password
	return s.draftRepo.Save(ctx, draft)
}

// SubmitPhone implements domain.RegistrationService. On success the draft is
// saved first and a verification code is dispatched to the composed number.
func (s *RegistrationServiceImpl) SubmitPhone(ctx context.Context, draft *domain.Draft, countryCode, phoneNumber string) error {
	if countryCode == "" {
		return domain.ValidationErrors{"country_code": "Country code must be selected."}
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return domain.ValidationErrors{"phone_number": "Phone number is required."}
	}
	if !validation.SupportedCountryCode(countryCode) {
		return domain.ValidationErrors{"country_code": "Unsupported country code."}
	}
	national, ok := validation.ValidPhone(countryCode, phoneNumber)
	if !ok {
		return domain.ValidationErrors{"phone_number": "Please enter a valid phone number."}
	}

	draft.CountryCode = countryCode
	draft.PhoneNumber = national
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return err
	}

	if _, err := s.verificationSvc.Send(ctx, draft.FullPhone()); err != nil {
		if err == domain.ErrResendThrottled {
			return domain.ValidationErrors{"phone_number": "A code was sent recently. Please wait before requesting another."}
		}
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// VerifyPhone implements domain.RegistrationService. Validation failures are
// field errors; the draft itself is never touched by this step.
func (s *RegistrationServiceImpl) VerifyPhone(ctx context.Context, draft *domain.Draft, code string) error {
	if !validation.ValidCode(code) {
		return domain.ValidationErrors{"verification_code": "Please enter a valid 6-digit code."}
	}

	err := s.verificationSvc.Validate(ctx, draft.FullPhone(), code)
	switch err {
	case nil:
		return nil
	case domain.ErrCodeInvalid, domain.ErrCodeNotFound, domain.ErrCodeExpired:
		return domain.ValidationErrors{"verification_code": "Invalid verification code."}
	case domain.ErrTooManyAttempts:
		return domain.ValidationErrors{"verification_code": "Too many attempts. Please request a new code."}
	default:
		return fmt.Errorf("failed to validate verification code: %w", err)
	}
}

// SubmitRecoveryEmail implements domain.RegistrationService. The field is
// optional; when present it must look like an email address.
func (s *RegistrationServiceImpl) SubmitRecoveryEmail(ctx context.Context, draft *domain.Draft, recoveryEmail string) error {
	recoveryEmail = strings.TrimSpace(recoveryEmail)
	if recoveryEmail != "" && !validation.ValidEmail(recoveryEmail) {
		return domain.ValidationErrors{"recovery_email": "Please enter a valid recovery email address."}
	}

	draft.RecoveryEmail = recoveryEmail
	return s.draftRepo.Save(ctx, draft)
}

// AcceptTerms implements domain.RegistrationService
func (s *RegistrationServiceImpl) AcceptTerms(agree bool) error {
	if !agree {
		return domain.ValidationErrors{"agree": "You must agree to the terms to proceed."}
	}
	return nil
}

// Commit implements domain.RegistrationService. The account creation runs in
// a transaction with a final uniqueness check, so a hashing or persistence
// failure leaves no half-created account. The draft is deleted the moment
// its data has been transferred.
func (s *RegistrationServiceImpl) Commit(ctx context.Context, draft *domain.Draft) (*domain.Account, error) {
	if !draft.Complete() {
		return nil, domain.ErrDraftIncomplete
	}

	hash, err := s.passwordSvc.Hash(draft.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	account := &domain.Account{
		FirstName:      draft.FirstName,
		LastName:       draft.LastName,
		Email:          draft.Email,
		DateOfBirth:    *draft.DateOfBirth,
		Gender:         draft.Gender,
		CountryCode:    draft.CountryCode,
		PhoneNumber:    draft.PhoneNumber,
		RecoveryEmail:  draft.RecoveryEmail,
		CredentialHash: hash,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.draftRepo.Delete(ctx, draft.Token); err != nil {
		// The account exists; the unique email index prevents a second
		// commit from this draft. Cleanup is best-effort beyond that.
		log.Printf("DRAFT_CLEANUP_FAILED: account_id=%d error=%v", account.ID, err)
	}

	log.Printf("ACCOUNT_CREATED: account_id=%d email=%s timestamp=%s",
		account.ID, account.Email, s.now().UTC().Format(time.RFC3339))

	return account, nil
}
