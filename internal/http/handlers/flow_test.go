package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/http/middleware"
	"github.com/you/regwizard/internal/infrastructure/auth"
	"github.com/you/regwizard/internal/infrastructure/repositories"
	"github.com/you/regwizard/internal/mocks"
	"github.com/you/regwizard/internal/services"
)

// TestFullRegistrationFlow walks every step with valid data and checks that
// the commit creates exactly one account with a hashed credential and that
// the draft is gone afterwards.
func TestFullRegistrationFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var lastSMS string
	notificationSvc := mocks.NewMockNotificationService()
	notificationSvc.SendSMSFunc = func(to, message string) error {
		lastSMS = message
		return nil
	}

	accountRepo := mocks.NewMockAccountRepository()
	draftRepo := repositories.NewDraftRepository(redisClient, 0)
	verificationSvc := services.NewVerificationService(notificationSvc, redisClient, services.VerificationConfig{
		Length:      6,
		TTL:         5 * time.Minute,
		MaxAttempts: 5,
	})
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService("test-secret", "regwizard", time.Hour)
	regSvc := services.NewRegistrationService(
		draftRepo,
		accountRepo,
		verificationSvc,
		services.NewSuggestionService(accountRepo),
		passwordSvc,
		"example.com",
	)

	regH := NewRegistrationHandlers(regSvc, tokenSvc, "registration_id", 3)
	dashH := NewDashboardHandlers(accountRepo)
	authMW := middleware.NewAuthMW(tokenSvc)

	r := gin.New()
	r.GET("/register/:step", regH.Show)
	r.POST("/register/:step", regH.Submit)
	r.GET("/dashboard", authMW.WithToken(), dashH.Me)

	// The cookie is re-issued whenever the server allocates a fresh draft,
	// so the test follows Set-Cookie like a browser.
	var cookie string
	followCookie := func(w *httptest.ResponseRecorder) {
		for _, c := range w.Result().Cookies() {
			if c.Name == "registration_id" && c.Value != "" {
				cookie = c.Value
			}
		}
	}

	// First contact allocates the draft and hands out the cookie.
	w := performJSON(t, r, http.MethodGet, "/register/name", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	followCookie(w)
	require.NotEmpty(t, cookie, "expected a registration cookie")

	// Resuming the email step before a name is set bounces to step one.
	w = performJSON(t, r, http.MethodGet, "/register/email", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/register/name", w.Header().Get("Location"))
	followCookie(w)

	steps := []struct {
		path string
		body interface{}
		next string
	}{
		{"/register/name", NameRequest{FirstName: "Teboho", LastName: "Mokgosi"}, "/register/birthday"},
		{"/register/birthday", BirthdayRequest{Month: "June", Day: 15, Year: 1995, Gender: "Female"}, "/register/email"},
		{"/register/email", EmailRequest{Email: "teboho.mokgosi@example.com"}, "/register/password"},
		{"/register/password", PasswordRequest{Password: "sup3rsecret", ConfirmPassword: "sup3rsecret"}, "/register/phone"},
		{"/register/phone", PhoneRequest{CountryCode: "+1", PhoneNumber: "2025550123"}, "/register/verify"},
	}
	for _, step := range steps {
		w = performJSON(t, r, http.MethodPost, step.path, step.body, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code, "POST %s body: %s", step.path, w.Body.String())
		require.Equal(t, step.next, w.Header().Get("Location"))
		followCookie(w)
	}

	// The code went out over the stubbed SMS channel.
	code := regexp.MustCompile(`\d{6}`).FindString(lastSMS)
	require.Len(t, code, 6, "expected a 6-digit code in the SMS, got %q", lastSMS)

	// A wrong code is a field error and does not advance.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	w = performJSON(t, r, http.MethodPost, "/register/verify", VerifyRequest{VerificationCode: wrong}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	tail := []struct {
		path string
		body interface{}
		next string
	}{
		{"/register/verify", VerifyRequest{VerificationCode: code}, "/register/recovery"},
		{"/register/recovery", RecoveryRequest{RecoveryEmail: "backup@example.org"}, "/register/review"},
		{"/register/review", nil, "/register/terms"},
		{"/register/terms", TermsRequest{Agree: true}, "/register/complete"},
	}
	for _, step := range tail {
		w = performJSON(t, r, http.MethodPost, step.path, step.body, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code, "POST %s body: %s", step.path, w.Body.String())
		require.Equal(t, step.next, w.Header().Get("Location"))
		followCookie(w)
	}

	// Commit.
	w = performJSON(t, r, http.MethodPost, "/register/complete", nil, cookie)
	require.Equal(t, http.StatusCreated, w.Code, "commit body: %s", w.Body.String())

	var commitBody struct {
		Data struct {
			AccountID uint   `json:"account_id"`
			Email     string `json:"email"`
			Token     string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commitBody))
	assert.Equal(t, "teboho.mokgosi@example.com", commitBody.Data.Email)
	require.NotEmpty(t, commitBody.Data.Token)

	// Exactly one account, with a hashed credential.
	require.Len(t, accountRepo.Accounts, 1)
	account := accountRepo.Accounts[0]
	assert.NotEqual(t, "sup3rsecret", account.CredentialHash)
	assert.True(t, passwordSvc.Verify(account.CredentialHash, "sup3rsecret"))
	assert.Equal(t, domain.GenderFemale, account.Gender)
	assert.Equal(t, "backup@example.org", account.RecoveryEmail)

	// The draft is no longer retrievable by its token.
	resumed, err := draftRepo.GetOrCreate(context.Background(), cookie)
	require.NoError(t, err)
	assert.NotEqual(t, cookie, resumed.Token)
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "draft:") {
			t.Errorf("draft key %s still present after commit", key)
		}
	}

	// The issued token opens the dashboard.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+commitBody.Data.Token)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "teboho.mokgosi@example.com")
}
