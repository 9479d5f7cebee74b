package domain

import "context"

// DraftRepository defines draft session persistence, keyed by the opaque
// cookie token. Lookup is strictly by token; no cross-visitor access.
type DraftRepository interface {
	// GetOrCreate resolves token to an existing draft, or allocates a fresh
	// draft with a newly generated token when the token is empty or unknown.
	GetOrCreate(ctx context.Context, token string) (*Draft, error)
	// Save persists the draft and stamps LastUpdated.
	Save(ctx context.Context, draft *Draft) error
	// Delete removes the draft; deleting an absent draft is a no-op.
	Delete(ctx context.Context, token string) error
}

// AccountRepository defines permanent account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uint) (*Account, error)
	// ExistsByEmail matches case-insensitively.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// VerificationService manages phone confirmation codes.
type VerificationService interface {
	// Send issues a fresh code for the full phone number and dispatches it
	// through the notification channel. The code is returned for logging in
	// stub deployments only.
	Send(ctx context.Context, phone string) (string, error)
	// Validate consumes the entry on the first correct submission within the
	// expiry window and attempt budget.
	Validate(ctx context.Context, phone, code string) error
}

// SuggestionService produces unique, not-yet-taken email candidates of the
// form <prefix><3-digit-number>@<domain>.
type SuggestionService interface {
	Generate(ctx context.Context, baseEmail string, count int) ([]string, error)
}

// PasswordService defines the one-way credential hashing primitive.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// NotificationService defines outbound message delivery.
type NotificationService interface {
	SendSMS(to, message string) error
}

// TokenService signs and validates the post-commit dashboard token.
type TokenService interface {
	Generate(accountID uint, email string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// RegistrationService is the step-validation and commit protocol behind the
// wizard handlers. Submit methods validate the input against the current
// draft, mutate and save the draft on success, and return ValidationErrors
// on field failures without touching the draft.
type RegistrationService interface {
	ResumeDraft(ctx context.Context, token string) (*Draft, error)
	SubmitName(ctx context.Context, draft *Draft, firstName, lastName string) error
	SubmitBirthday(ctx context.Context, draft *Draft, month string, day, year int, gender Gender) error
	// EmailChoices returns the base candidate derived from the draft's name
	// and freshly generated unique suggestions.
	EmailChoices(ctx context.Context, draft *Draft, count int) (string, []string, error)
	SubmitEmail(ctx context.Context, draft *Draft, email string) error
	SubmitPassword(ctx context.Context, draft *Draft, password, confirm string) error
	SubmitPhone(ctx context.Context, draft *Draft, countryCode, phoneNumber string) error
	VerifyPhone(ctx context.Context, draft *Draft, code string) error
	SubmitRecoveryEmail(ctx context.Context, draft *Draft, recoveryEmail string) error
	AcceptTerms(agree bool) error
	// Commit hashes the credential, creates the account and deletes the
	// draft. An incomplete draft yields ErrDraftIncomplete.
	Commit(ctx context.Context, draft *Draft) (*Account, error)
}
