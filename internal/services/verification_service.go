package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/regwizard/domain"
)

// VerificationServiceImpl implements domain.VerificationService with Redis
// persistence. Entries are keyed by the full phone number only, matching the
// source system; two drafts sharing a number share the entry.
type VerificationServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          VerificationConfig
	now             func() time.Time
}

type VerificationConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewVerificationService creates a new Redis-based verification service
func NewVerificationService(notificationSvc domain.NotificationService, redisClient *redis.Client, config VerificationConfig) domain.VerificationService {
	return &VerificationServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
		now:             time.Now,
	}
}

func (s *VerificationServiceImpl) entryKey(phone string) string {
	return fmt.Sprintf("verify:%s", phone)
}

func (s *VerificationServiceImpl) resendKey(phone string) string {
	return fmt.Sprintf("verify:res:%s", phone)
}

// Send implements domain.VerificationService. A fresh code replaces any
// previous entry for the phone and resets the attempt counter.
func (s *VerificationServiceImpl) Send(ctx context.Context, phone string) (string, error) {
	if s.config.ResendWindow > 0 {
		ttl, err := s.redisClient.TTL(ctx, s.resendKey(phone)).Result()
		if err != nil {
			return "", fmt.Errorf("failed to check resend throttle: %w", err)
		}
		if ttl > 0 {
			return "", domain.ErrResendThrottled
		}
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	entry := domain.VerificationEntry{
		Code:     code,
		Expiry:   s.now().UTC().Add(s.config.TTL),
		Attempts: 0,
	}
	if err := s.storeEntry(ctx, phone, &entry, s.config.TTL); err != nil {
		return "", err
	}

	if s.config.ResendWindow > 0 {
		if err := s.redisClient.Set(ctx, s.resendKey(phone), 1, s.config.ResendWindow).Err(); err != nil {
			return "", fmt.Errorf("failed to set resend throttle: %w", err)
		}
	}

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendSMS(phone, message); err != nil {
		s.redisClient.Del(ctx, s.entryKey(phone), s.resendKey(phone))
		return "", fmt.Errorf("failed to send verification SMS: %w", err)
	}

	return code, nil
}

// Validate implements domain.VerificationService. The attempt counter
// increments on wrong codes only, and the cap is checked before comparing,
// so an exhausted entry rejects even a correct code. Expired entries are
// removed lazily here.
func (s *VerificationServiceImpl) Validate(ctx context.Context, phone, code string) error {
	entry, err := s.loadEntry(ctx, phone)
	if err != nil {
		return err
	}

	if s.now().UTC().After(entry.Expiry) {
		s.redisClient.Del(ctx, s.entryKey(phone))
		return domain.ErrCodeExpired
	}

	if entry.Attempts >= s.config.MaxAttempts {
		return domain.ErrTooManyAttempts
	}

	if entry.Code != code {
		entry.Attempts++
		// Keep the original expiry; a wrong guess must not extend the window.
		if err := s.storeEntry(ctx, phone, entry, time.Until(entry.Expiry)); err != nil {
			return err
		}
		return domain.ErrCodeInvalid
	}

	// Consumed on first successful validation.
	s.redisClient.Del(ctx, s.entryKey(phone))
	return nil
}

func (s *VerificationServiceImpl) loadEntry(ctx context.Context, phone string) (*domain.VerificationEntry, error) {
	data, err := s.redisClient.Get(ctx, s.entryKey(phone)).Result()
	if err == redis.Nil {
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification entry: %w", err)
	}

	var entry domain.VerificationEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification entry: %w", err)
	}
	return &entry, nil
}

func (s *VerificationServiceImpl) storeEntry(ctx context.Context, phone string, entry *domain.VerificationEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal verification entry: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.redisClient.Set(ctx, s.entryKey(phone), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification entry: %w", err)
	}
	return nil
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *VerificationServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
