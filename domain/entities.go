package domain

import "time"

// Gender is stored as its textual name on the account record.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Draft is an in-progress registration keyed by the visitor's cookie token.
// Fields are filled in step by step; Credential holds the not-yet-hashed
// password for the lifetime of the draft only and must never be logged.
type Draft struct {
	Token         string     `json:"token"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        Gender     `json:"gender,omitempty"`
	Email         string     `json:"email,omitempty"`
	Credential    string     `json:"credential,omitempty"`
	CountryCode   string     `json:"country_code,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	RecoveryEmail string     `json:"recovery_email,omitempty"`
	LastUpdated   time.Time  `json:"last_updated"`
}

// FullPhone composes the dialing form the verification channel uses.
func (d *Draft) FullPhone() string {
	return d.CountryCode + d.PhoneNumber
}

// Complete reports whether every field Account Commit requires is present.
// RecoveryEmail is optional and deliberately excluded.
func (d *Draft) Complete() bool {
	return d.FirstName != "" &&
		d.LastName != "" &&
		d.Email != "" &&
		d.Credential != "" &&
		d.DateOfBirth != nil &&
		d.Gender.Valid() &&
		d.CountryCode != "" &&
		d.PhoneNumber != ""
}

// Account is the permanent identity record created exactly once per
// completed flow.
type Account struct {
	ID             uint
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	Gender         Gender
	CountryCode    string
	PhoneNumber    string
	RecoveryEmail  string
	CredentialHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VerificationEntry is the ephemeral phone-confirmation record, keyed by the
// full phone number. It is consumed on first successful validation and
// cleaned up lazily once expired.
type VerificationEntry struct {
	Code     string    `json:"code"`
	Expiry   time.Time `json:"expiry"`
	Attempts int       `json:"attempts"`
}

// TokenClaims carries the signed dashboard-token payload issued after commit.
type TokenClaims struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
