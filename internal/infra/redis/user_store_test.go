package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"solo-quiz-service/internal/domain"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewUserStore(client)

	record := domain.UserRecord{
		ID:        "u1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "secret",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := store.Create(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !mr.Exists("quiz:user:u1") || !mr.Exists("quiz:email:alice@example.com") {
		t.Fatalf("expected user and email keys to be set")
	}

	if err := store.Create(ctx, domain.UserRecord{ID: "u2", Email: "alice@example.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	found, err := store.FindByCredentials(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("find by credentials: %v", err)
	}
	if found.ID != "u1" || found.Name != "Alice" {
		t.Fatalf("unexpected record %+v", found)
	}

	if _, err := store.FindByCredentials(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on bad password, got %v", err)
	}
	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStoreUpdateAppliesAttempt(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewUserStore(client)

	if err := store.Create(ctx, domain.UserRecord{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := store.Update(ctx, "u1", func(record domain.UserRecord) (domain.UserRecord, error) {
		record.TotalScore += 30
		record.BestScore = 30
		record.History = append(record.History, domain.AttemptRecord{Timestamp: time.Now().UTC(), Points: 30})
		return record, nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalScore != 30 || len(updated.History) != 1 {
		t.Fatalf("unexpected updated record %+v", updated)
	}

	stored, err := store.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.TotalScore != 30 || stored.BestScore != 30 || len(stored.History) != 1 {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestUserStoreUpdateMissingUser(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewUserStore(client)

	_, err := store.Update(ctx, "ghost", func(record domain.UserRecord) (domain.UserRecord, error) {
		return record, nil
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStoreUpdatePropagatesError(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()
	store := NewUserStore(client)

	if err := store.Create(ctx, domain.UserRecord{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	sentinel := errors.New("rejected")
	if _, err := store.Update(ctx, "u1", func(record domain.UserRecord) (domain.UserRecord, error) {
		return record, sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("expected fn error, got %v", err)
	}

	stored, _ := store.FindByID(ctx, "u1")
	if stored.TotalScore != 0 || len(stored.History) != 0 {
		t.Fatalf("failed update must not persist, got %+v", stored)
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
