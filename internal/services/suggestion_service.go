package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/you/regwizard/domain"
)

// SuggestionServiceImpl implements domain.SuggestionService. Candidates are
// the base prefix with a random three-digit suffix, retried until they
// collide with neither an existing account nor each other.
type SuggestionServiceImpl struct {
	accountRepo domain.AccountRepository
}

// NewSuggestionService creates a new email suggestion service
func NewSuggestionService(accountRepo domain.AccountRepository) domain.SuggestionService {
	return &SuggestionServiceImpl{accountRepo: accountRepo}
}

// Generate implements domain.SuggestionService
func (s *SuggestionServiceImpl) Generate(ctx context.Context, baseEmail string, count int) ([]string, error) {
	suggestions := []string{}
	at := strings.Index(baseEmail, "@")
	if baseEmail == "" || at < 0 {
		return suggestions, nil
	}

	prefix := baseEmail[:at]
	emailDomain := baseEmail[at+1:]

	seen := map[string]bool{}
	for len(suggestions) < count {
		candidate := fmt.Sprintf("%s%d@%s", prefix, 100+rand.Intn(900), emailDomain)
		if seen[candidate] {
			continue
		}
		taken, err := s.accountRepo.ExistsByEmail(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check suggestion uniqueness: %w", err)
		}
		if taken {
			continue
		}
		seen[candidate] = true
		suggestions = append(suggestions, candidate)
	}

	return suggestions, nil
}
