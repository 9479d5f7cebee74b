package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/mocks"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newVerificationServiceForTest(t *testing.T, cfg VerificationConfig) (*VerificationServiceImpl, *mocks.MockNotificationService) {
	t.Helper()

	notificationSvc := mocks.NewMockNotificationService()
	svc := NewVerificationService(notificationSvc, setupTestRedis(t), cfg).(*VerificationServiceImpl)
	return svc, notificationSvc
}

func defaultVerificationConfig() VerificationConfig {
	return VerificationConfig{
		Length:      6,
		TTL:         5 * time.Minute,
		MaxAttempts: 5,
	}
}

func TestVerificationService_Send(t *testing.T) {
	svc, notificationSvc := newVerificationServiceForTest(t, defaultVerificationConfig())
	ctx := context.Background()

	code, err := svc.Send(ctx, "+12025550123")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(code) {
		t.Errorf("expected a 6-digit code, got %q", code)
	}
	if len(notificationSvc.Sent) != 1 || notificationSvc.Sent[0] != "+12025550123" {
		t.Errorf("expected one SMS to +12025550123, got %v", notificationSvc.Sent)
	}

	if err := svc.Validate(ctx, "+12025550123", code); err != nil {
		t.Errorf("correct code rejected: %v", err)
	}
}

func TestVerificationService_SendSMSFailureCleansUp(t *testing.T) {
	svc, notificationSvc := newVerificationServiceForTest(t, defaultVerificationConfig())
	notificationSvc.SendSMSFunc = func(to, message string) error {
		return errors.New("gateway down")
	}
	ctx := context.Background()

	if _, err := svc.Send(ctx, "+12025550123"); err == nil {
		t.Fatal("expected Send to surface the SMS failure")
	}
	if err := svc.Validate(ctx, "+12025550123", "123456"); err != domain.ErrCodeNotFound {
		t.Errorf("expected no entry after failed send, got %v", err)
	}
}

func TestVerificationService_ExpiryWindow(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		expected error
	}{
		{"just inside the window", 4*time.Minute + 59*time.Second, nil},
		{"just past the window", 5*time.Minute + 1*time.Second, domain.ErrCodeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newVerificationServiceForTest(t, defaultVerificationConfig())
			ctx := context.Background()

			issued := time.Now().UTC()
			svc.now = func() time.Time { return issued }
			code, err := svc.Send(ctx, "+12025550123")
			if err != nil {
				t.Fatalf("Send returned error: %v", err)
			}

			svc.now = func() time.Time { return issued.Add(tt.elapsed) }
			if err := svc.Validate(ctx, "+12025550123", code); err != tt.expected {
				t.Errorf("Validate after %v = %v, want %v", tt.elapsed, err, tt.expected)
			}
		})
	}
}

func TestVerificationService_AttemptBudget(t *testing.T) {
	svc, _ := newVerificationServiceForTest(t, defaultVerificationConfig())
	ctx := context.Background()

	code, err := svc.Send(ctx, "+12025550123")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	// Five wrong submissions burn the budget.
	for i := 0; i < 5; i++ {
		if err := svc.Validate(ctx, "+12025550123", "000000"); err != domain.ErrCodeInvalid {
			t.Fatalf("wrong submission %d: got %v, want %v", i+1, err, domain.ErrCodeInvalid)
		}
	}

	// The sixth submission is rejected even with the correct code.
	if err := svc.Validate(ctx, "+12025550123", code); err != domain.ErrTooManyAttempts {
		t.Errorf("sixth submission with correct code: got %v, want %v", err, domain.ErrTooManyAttempts)
	}
}

func TestVerificationService_ConsumedOnSuccess(t *testing.T) {
	svc, _ := newVerificationServiceForTest(t, defaultVerificationConfig())
	ctx := context.Background()

	code, err := svc.Send(ctx, "+12025550123")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if err := svc.Validate(ctx, "+12025550123", code); err != nil {
		t.Fatalf("correct code rejected: %v", err)
	}
	if err := svc.Validate(ctx, "+12025550123", code); err != domain.ErrCodeNotFound {
		t.Errorf("entry should be consumed on success, got %v", err)
	}
}

func TestVerificationService_UnknownPhone(t *testing.T) {
	svc, _ := newVerificationServiceForTest(t, defaultVerificationConfig())

	if err := svc.Validate(context.Background(), "+4915123456789", "123456"); err != domain.ErrCodeNotFound {
		t.Errorf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestVerificationService_ResendThrottle(t *testing.T) {
	cfg := defaultVerificationConfig()
	cfg.ResendWindow = time.Minute
	svc, _ := newVerificationServiceForTest(t, cfg)
	ctx := context.Background()

	if _, err := svc.Send(ctx, "+12025550123"); err != nil {
		t.Fatalf("first Send returned error: %v", err)
	}
	if _, err := svc.Send(ctx, "+12025550123"); err != domain.ErrResendThrottled {
		t.Errorf("second Send within window: got %v, want %v", err, domain.ErrResendThrottled)
	}
	// A different phone number is unaffected.
	if _, err := svc.Send(ctx, "+447400123456"); err != nil {
		t.Errorf("Send for another phone: %v", err)
	}
}
