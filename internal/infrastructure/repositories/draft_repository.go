package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/you/regwizard/domain"
)

// DraftRepositoryImpl implements domain.DraftRepository using Redis. Each
// draft is a single JSON value, so a save is applied atomically.
type DraftRepositoryImpl struct {
	client *redis.Client
	prefix string
	// ttl of zero keeps drafts until commit deletes them.
	ttl time.Duration
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration) domain.DraftRepository {
	return &DraftRepositoryImpl{
		client: client,
		prefix: "draft:",
		ttl:    ttl,
	}
}

// GetOrCreate implements domain.DraftRepository. An empty or unknown token
// yields a fresh draft with a newly generated token; the fresh draft is not
// persisted until its first Save.
func (r *DraftRepositoryImpl) GetOrCreate(ctx context.Context, token string) (*domain.Draft, error) {
	if token != "" {
		data, err := r.client.Get(ctx, r.prefix+token).Result()
		if err == nil {
			var draft domain.Draft
			if err := json.Unmarshal([]byte(data), &draft); err != nil {
				return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
			}
			return &draft, nil
		}
		if err != redis.Nil {
			return nil, err
		}
	}

	return &domain.Draft{
		Token:       uuid.NewString(),
		LastUpdated: time.Now().UTC(),
	}, nil
}

// Save implements domain.DraftRepository and stamps LastUpdated.
func (r *DraftRepositoryImpl) Save(ctx context.Context, draft *domain.Draft) error {
	draft.LastUpdated = time.Now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return r.client.Set(ctx, r.prefix+draft.Token, data, r.ttl).Err()
}

// Delete implements domain.DraftRepository; deleting an absent draft is a
// no-op.
func (r *DraftRepositoryImpl) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}
