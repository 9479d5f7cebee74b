package auth

import (
	"testing"
	"time"

	"github.com/you/regwizard/domain"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "regwizard", time.Hour)

	token, err := svc.Generate(7, "teboho.mokgosi@example.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.AccountID != 7 {
		t.Errorf("expected account ID 7, got %d", claims.AccountID)
	}
	if claims.Email != "teboho.mokgosi@example.com" {
		t.Errorf("unexpected email claim %q", claims.Email)
	}
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "regwizard", -time.Minute)

	token, err := svc.Generate(7, "teboho.mokgosi@example.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected an expired token to be rejected")
	}
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("secret-a", "regwizard", time.Hour)
	verifier := NewJWTService("secret-b", "regwizard", time.Hour)

	token, err := issuer.Generate(7, "teboho.mokgosi@example.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := verifier.Validate(token); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "regwizard", time.Hour)

	if _, err := svc.Validate("not.a.token"); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
