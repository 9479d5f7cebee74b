package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/validation"
	"github.com/you/regwizard/internal/wizard"
)

// RegistrationHandlers drives the ten-step wizard over HTTP. Every handler
// resolves the visitor's draft from the registration cookie, consults the
// step state machine for guards, and maps service results onto redirects and
// field-error responses.
type RegistrationHandlers struct {
	regSvc      domain.RegistrationService
	tokenSvc    domain.TokenService
	cookieName  string
	suggestions int
}

// NewRegistrationHandlers creates new registration handlers
func NewRegistrationHandlers(regSvc domain.RegistrationService, tokenSvc domain.TokenService, cookieName string, suggestions int) *RegistrationHandlers {
	return &RegistrationHandlers{
		regSvc:      regSvc,
		tokenSvc:    tokenSvc,
		cookieName:  cookieName,
		suggestions: suggestions,
	}
}

// NameRequest carries the first step's fields.
type NameRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BirthdayRequest carries the second step's fields. The month arrives by name.
type BirthdayRequest struct {
	Month  string `json:"month"`
	Day    int    `json:"day"`
	Year   int    `json:"year"`
	Gender string `json:"gender"`
}

// EmailRequest carries the chosen or custom email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// PasswordRequest carries the credential and its confirmation.
type PasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PhoneRequest carries the dialing prefix and national number.
type PhoneRequest struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

// VerifyRequest carries the submitted verification code.
type VerifyRequest struct {
	VerificationCode string `json:"verification_code"`
}

// RecoveryRequest carries the optional recovery email.
type RecoveryRequest struct {
	RecoveryEmail string `json:"recovery_email"`
}

// TermsRequest carries the terms acceptance flag.
type TermsRequest struct {
	Agree bool `json:"agree"`
}

// resolveDraft loads or lazily creates the visitor's draft and refreshes the
// registration cookie when a fresh token was allocated.
func (h *RegistrationHandlers) resolveDraft(c *gin.Context) (*domain.Draft, bool) {
	token, _ := c.Cookie(h.cookieName)
	draft, err := h.regSvc.ResumeDraft(c.Request.Context(), token)
	if err != nil {
		h.fail(c, "resolve draft", err)
		return nil, false
	}
	if draft.Token != token {
		c.SetCookie(h.cookieName, draft.Token, 0, "/", "", false, true)
	}
	return draft, true
}

// fail logs the fault and answers with a generic message, never leaking
// internal detail to the visitor.
func (h *RegistrationHandlers) fail(c *gin.Context, op string, err error) {
	log.Printf("REGISTRATION_ERROR: op=%s error=%v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}

// submitOutcome translates a service result: field errors re-render the step,
// success advances to the next one.
func (h *RegistrationHandlers) submitOutcome(c *gin.Context, step wizard.Step, err error) {
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/register/"+step.Next().Slug())
		return
	}
	if fieldErrs, ok := domain.AsValidationErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}
	h.fail(c, step.Slug(), err)
}

// Show handles GET /register/:step, returning the draft state relevant to
// the step so a returning visitor resumes with fields pre-filled.
func (h *RegistrationHandlers) Show(c *gin.Context) {
	step, ok := wizard.FromSlug(c.Param("step"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown registration step"})
		return
	}

	draft, ok := h.resolveDraft(c)
	if !ok {
		return
	}
	if !wizard.Allowed(step, draft) {
		c.Redirect(http.StatusFound, "/register/"+wizard.StepName.Slug())
		return
	}

	switch step {
	case wizard.StepName:
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"first_name": draft.FirstName,
			"last_name":  draft.LastName,
		}})
	case wizard.StepBirthday:
		payload := gin.H{"gender": draft.Gender}
		if draft.DateOfBirth != nil {
			payload["month"] = draft.DateOfBirth.Month().String()
			payload["day"] = draft.DateOfBirth.Day()
			payload["year"] = draft.DateOfBirth.Year()
		}
		c.JSON(http.StatusOK, gin.H{"data": payload})
	case wizard.StepEmail:
		base, suggestions, err := h.regSvc.EmailChoices(c.Request.Context(), draft, h.suggestions)
		if err != nil {
			h.fail(c, "email choices", err)
			return
		}
		email := draft.Email
		if email == "" {
			email = base
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"email":            email,
			"suggested_emails": suggestions,
		}})
	case wizard.StepPhone:
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"country_code":  draft.CountryCode,
			"phone_number":  draft.PhoneNumber,
			"country_codes": validation.CountryCodes(),
		}})
	case wizard.StepRecovery:
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"recovery_email": draft.RecoveryEmail,
		}})
	case wizard.StepReview:
		c.JSON(http.StatusOK, gin.H{"data": h.reviewPayload(draft)})
	default:
		// The password, verify, terms and complete screens carry no draft
		// state worth echoing.
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
	}
}

func (h *RegistrationHandlers) reviewPayload(draft *domain.Draft) gin.H {
	payload := gin.H{
		"full_name":      strings.TrimSpace(draft.FirstName + " " + draft.LastName),
		"email":          draft.Email,
		"phone_number":   draft.FullPhone(),
		"gender":         string(draft.Gender),
		"recovery_email": draft.RecoveryEmail,
	}
	if draft.DateOfBirth != nil {
		payload["date_of_birth"] = draft.DateOfBirth.Format("2006-01-02")
	}
	return payload
}

// Submit handles POST /register/:step: validate, mutate, advance.
func (h *RegistrationHandlers) Submit(c *gin.Context) {
	step, ok := wizard.FromSlug(c.Param("step"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown registration step"})
		return
	}

	draft, ok := h.resolveDraft(c)
	if !ok {
		return
	}
	if !wizard.Allowed(step, draft) {
		c.Redirect(http.StatusFound, "/register/"+wizard.StepName.Slug())
		return
	}

	ctx := c.Request.Context()
	switch step {
	case wizard.StepName:
		var req NameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.SubmitName(ctx, draft, req.FirstName, req.LastName))
	case wizard.StepBirthday:
		var req BirthdayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.SubmitBirthday(ctx, draft, req.Month, req.Day, req.Year, domain.Gender(req.Gender)))
	case wizard.StepEmail:
		var req EmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := h.regSvc.SubmitEmail(ctx, draft, req.Email)
		if fieldErrs, isField := domain.AsValidationErrors(err); isField {
			// Regenerate suggestions alongside the conflict, since the ones
			// the visitor saw may be what collided.
			_, suggestions, sugErr := h.regSvc.EmailChoices(ctx, draft, h.suggestions)
			if sugErr != nil {
				h.fail(c, "email suggestions", sugErr)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"errors":           fieldErrs,
				"suggested_emails": suggestions,
			})
			return
		}
		h.submitOutcome(c, step, err)
	case wizard.StepPassword:
		var req PasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.SubmitPassword(ctx, draft, req.Password, req.ConfirmPassword))
	case wizard.StepPhone:
		var req PhoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.SubmitPhone(ctx, draft, req.CountryCode, req.PhoneNumber))
	case wizard.StepVerify:
		var req VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.VerifyPhone(ctx, draft, req.VerificationCode))
	case wizard.StepRecovery:
		var req RecoveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.SubmitRecoveryEmail(ctx, draft, req.RecoveryEmail))
	case wizard.StepReview:
		// Display-only step; confirming simply advances.
		h.submitOutcome(c, step, nil)
	case wizard.StepTerms:
		var req TermsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.submitOutcome(c, step, h.regSvc.AcceptTerms(req.Agree))
	case wizard.StepComplete:
		h.commit(c, draft)
	}
}

// commit performs the terminal account-creation transaction.
func (h *RegistrationHandlers) commit(c *gin.Context, draft *domain.Draft) {
	account, err := h.regSvc.Commit(c.Request.Context(), draft)
	if err != nil {
		switch {
		case err == domain.ErrDraftIncomplete:
			c.Redirect(http.StatusFound, "/register/"+wizard.StepName.Slug())
		case err == domain.ErrEmailTaken:
			c.JSON(http.StatusBadRequest, gin.H{"errors": domain.ValidationErrors{
				"email": "This email address is already taken. Please choose another.",
			}})
		default:
			h.fail(c, "commit", err)
		}
		return
	}

	token, err := h.tokenSvc.Generate(account.ID, account.Email)
	if err != nil {
		h.fail(c, "dashboard token", err)
		return
	}

	// The draft is gone; drop its cookie and hand over the dashboard token.
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"account_id": account.ID,
		"email":      account.Email,
		"token":      token,
	}})
}
