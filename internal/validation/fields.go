// Package validation holds the field-level rules the wizard steps enforce.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z]+$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	codeRe  = regexp.MustCompile(`^\d{6}$`)
)

// ValidName reports whether s is a non-empty letters-only name.
func ValidName(s string) bool {
	return nameRe.MatchString(s)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidCode reports whether s is a six-digit verification code.
func ValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// MonthNumber resolves an English month name to its 1-based number. The
// vocabulary is fixed; anything else fails.
func MonthNumber(name string) (time.Month, bool) {
	t, err := time.Parse("January", strings.TrimSpace(name))
	if err != nil {
		return 0, false
	}
	return t.Month(), true
}

// DaysInMonth returns the real day count for the month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Age computes floor-of-years between dob and today. A birthday falling
// exactly today counts as having occurred.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(today) {
		age--
	}
	return age
}

// CountryCode is one dialing-prefix entry offered on the phone step.
type CountryCode struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// callingCodeToRegion maps supported dialing prefixes to the region used for
// number validation.
var callingCodeToRegion = map[string]string{
	"+1": "US", "+44": "GB", "+91": "IN", "+33": "FR", "+49": "DE",
	"+81": "JP", "+61": "AU", "+39": "IT", "+34": "ES", "+7": "RU",
	"+86": "CN", "+55": "BR", "+27": "ZA", "+82": "KR", "+31": "NL",
	"+46": "SE", "+41": "CH", "+90": "TR", "+351": "PT", "+30": "GR",
	"+65": "SG", "+62": "ID", "+60": "MY", "+63": "PH", "+52": "MX",
	"+48": "PL", "+420": "CZ", "+358": "FI", "+353": "IE", "+354": "IS",
	"+36": "HU",
}

// CountryCodes returns the dialing prefixes offered on the phone step.
func CountryCodes() []CountryCode {
	return []CountryCode{
		{Value: "+1", Label: "United States (+1)"},
		{Value: "+44", Label: "United Kingdom (+44)"},
		{Value: "+91", Label: "India (+91)"},
		{Value: "+33", Label: "France (+33)"},
		{Value: "+49", Label: "Germany (+49)"},
		{Value: "+81", Label: "Japan (+81)"},
		{Value: "+61", Label: "Australia (+61)"},
		{Value: "+39", Label: "Italy (+39)"},
		{Value: "+34", Label: "Spain (+34)"},
		{Value: "+7", Label: "Russia (+7)"},
		{Value: "+86", Label: "China (+86)"},
		{Value: "+55", Label: "Brazil (+55)"},
		{Value: "+27", Label: "South Africa (+27)"},
		{Value: "+82", Label: "South Korea (+82)"},
		{Value: "+31", Label: "Netherlands (+31)"},
		{Value: "+46", Label: "Sweden (+46)"},
		{Value: "+41", Label: "Switzerland (+41)"},
		{Value: "+90", Label: "Turkey (+90)"},
		{Value: "+351", Label: "Portugal (+351)"},
		{Value: "+30", Label: "Greece (+30)"},
		{Value: "+65", Label: "Singapore (+65)"},
		{Value: "+62", Label: "Indonesia (+62)"},
		{Value: "+60", Label: "Malaysia (+60)"},
		{Value: "+63", Label: "Philippines (+63)"},
		{Value: "+52", Label: "Mexico (+52)"},
		{Value: "+48", Label: "Poland (+48)"},
		{Value: "+420", Label: "Czech Republic (+420)"},
		{Value: "+358", Label: "Finland (+358)"},
		{Value: "+353", Label: "Ireland (+353)"},
		{Value: "+354", Label: "Iceland (+354)"},
		{Value: "+36", Label: "Hungary (+36)"},
	}
}

// NormalizePhone strips whitespace and any "+", "00" or duplicated dialing
// prefix the visitor typed into the national-number field.
func NormalizePhone(countryCode, phoneNumber string) string {
	national := strings.TrimSpace(phoneNumber)
	national = strings.TrimPrefix(national, "+")
	national = strings.TrimPrefix(national, "00")
	prefix := strings.TrimPrefix(countryCode, "+")
	national = strings.TrimPrefix(national, prefix)
	return national
}

// ValidPhone validates the national number against the rules of the region
// the dialing prefix maps to. It returns the normalized national number.
func ValidPhone(countryCode, phoneNumber string) (string, bool) {
	region, ok := callingCodeToRegion[countryCode]
	if !ok {
		return "", false
	}
	national := NormalizePhone(countryCode, phoneNumber)
	parsed, err := phonenumbers.Parse(national, region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}
	return national, true
}

// SupportedCountryCode reports whether the dialing prefix is in the table.
func SupportedCountryCode(countryCode string) bool {
	_, ok := callingCodeToRegion[countryCode]
	return ok
}
