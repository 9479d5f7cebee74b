package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/you/regwizard/domain"
	"github.com/you/regwizard/internal/mocks"
)

func TestSuggestionService_Generate(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	svc := NewSuggestionService(accountRepo)

	suggestions, err := svc.Generate(context.Background(), "teboho.mokgosi@example.com", 3)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}

	pattern := regexp.MustCompile(`^teboho\.mokgosi\d{3}@example\.com$`)
	seen := map[string]bool{}
	for _, s := range suggestions {
		if !pattern.MatchString(s) {
			t.Errorf("suggestion %q does not match <prefix><3-digit>@<domain>", s)
		}
		if seen[s] {
			t.Errorf("duplicate suggestion %q", s)
		}
		seen[s] = true
	}
}

func TestSuggestionService_SkipsTakenEmails(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	// Claim most of the suffix space so collisions are certain to occur.
	taken := map[string]bool{}
	accountRepo.ExistsByEmailFunc = func(ctx context.Context, email string) (bool, error) {
		return taken[email], nil
	}
	for n := 100; n < 995; n++ {
		taken["user"+string(rune('0'+n/100))+string(rune('0'+(n/10)%10))+string(rune('0'+n%10))+"@example.com"] = true
	}

	suggestions, err := NewSuggestionService(accountRepo).Generate(context.Background(), "user@example.com", 3)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}
	for _, s := range suggestions {
		if taken[s] {
			t.Errorf("suggestion %q collides with an existing account", s)
		}
	}
}

func TestSuggestionService_MalformedBase(t *testing.T) {
	svc := NewSuggestionService(mocks.NewMockAccountRepository())

	for _, base := range []string{"", "no-at-sign"} {
		suggestions, err := svc.Generate(context.Background(), base, 3)
		if err != nil {
			t.Fatalf("Generate(%q) returned error: %v", base, err)
		}
		if len(suggestions) != 0 {
			t.Errorf("Generate(%q) = %v, want empty", base, suggestions)
		}
	}
}

var _ domain.SuggestionService = (*SuggestionServiceImpl)(nil)
