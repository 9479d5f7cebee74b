package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/regwizard/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestDraftRepository_GetOrCreate(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client, 0)
	ctx := context.Background()

	t.Run("empty token allocates a fresh draft", func(t *testing.T) {
		draft, err := repo.GetOrCreate(ctx, "")
		if err != nil {
			t.Fatalf("GetOrCreate returned error: %v", err)
		}
		if draft.Token == "" {
			t.Error("expected a generated token")
		}
		if draft.FirstName != "" || draft.Email != "" {
			t.Error("fresh draft must be empty")
		}
	})

	t.Run("unknown token allocates a fresh draft with a new token", func(t *testing.T) {
		draft, err := repo.GetOrCreate(ctx, "stale-token")
		if err != nil {
			t.Fatalf("GetOrCreate returned error: %v", err)
		}
		if draft.Token == "stale-token" {
			t.Error("unknown token must not be reused")
		}
	})

	t.Run("existing token resumes the stored draft unchanged", func(t *testing.T) {
		draft, err := repo.GetOrCreate(ctx, "")
		if err != nil {
			t.Fatalf("GetOrCreate returned error: %v", err)
		}
		draft.FirstName = "Teboho"
		draft.LastName = "Mokgosi"
		if err := repo.Save(ctx, draft); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}

		resumed, err := repo.GetOrCreate(ctx, draft.Token)
		if err != nil {
			t.Fatalf("GetOrCreate returned error: %v", err)
		}
		if resumed.Token != draft.Token {
			t.Errorf("expected token %s, got %s", draft.Token, resumed.Token)
		}
		if resumed.FirstName != "Teboho" || resumed.LastName != "Mokgosi" {
			t.Errorf("resumed draft lost data: %+v", resumed)
		}
	})
}

func TestDraftRepository_SaveStampsLastUpdated(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client, 0)
	ctx := context.Background()

	draft, err := repo.GetOrCreate(ctx, "")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	created := draft.LastUpdated

	time.Sleep(5 * time.Millisecond)
	if err := repo.Save(ctx, draft); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !draft.LastUpdated.After(created) {
		t.Error("Save must refresh LastUpdated")
	}
}

func TestDraftRepository_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("zero TTL keeps drafts", func(t *testing.T) {
		repo := NewDraftRepository(client, 0)
		draft, _ := repo.GetOrCreate(ctx, "")
		if err := repo.Save(ctx, draft); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		if mr.TTL("draft:"+draft.Token) != 0 {
			t.Error("expected no expiry on draft key")
		}
	})

	t.Run("configured TTL is applied", func(t *testing.T) {
		repo := NewDraftRepository(client, 72*time.Hour)
		draft, _ := repo.GetOrCreate(ctx, "")
		if err := repo.Save(ctx, draft); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
		if mr.TTL("draft:"+draft.Token) != 72*time.Hour {
			t.Errorf("expected 72h TTL, got %v", mr.TTL("draft:"+draft.Token))
		}
	})
}

func TestDraftRepository_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client, 0)
	ctx := context.Background()

	draft, _ := repo.GetOrCreate(ctx, "")
	if err := repo.Save(ctx, draft); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := repo.Delete(ctx, draft.Token); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	resumed, err := repo.GetOrCreate(ctx, draft.Token)
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if resumed.Token == draft.Token {
		t.Error("deleted draft must not be retrievable by its token")
	}

	// Deleting again is a no-op.
	if err := repo.Delete(ctx, draft.Token); err != nil {
		t.Errorf("second Delete returned error: %v", err)
	}
}

var _ domain.DraftRepository = (*DraftRepositoryImpl)(nil)
