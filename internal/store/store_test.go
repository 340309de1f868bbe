package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldlink/jobber-adapter/pkg/model"
)

func newTestStore(t *testing.T) (*HybridStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &HybridStore{redis: rdb, logger: zap.NewNop()}, mr
}

func TestSetAndGetJSON(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	defer mr.Close()

	val := map[string]string{"client_id": "abc123"}

	if err := store.SetJSON(ctx, "jobber:cred", val, time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got map[string]string
	if err := store.GetJSON(ctx, "jobber:cred", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}

	if got["client_id"] != "abc123" {
		t.Errorf("expected client_id=abc123, got %s", got["client_id"])
	}
}

func TestSetJSON_Expiration(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	defer mr.Close()

	val := map[string]string{"key": "value"}
	if err := store.SetJSON(ctx, "test:key", val, 200*time.Millisecond); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	// Fast forward miniredis time
	mr.FastForward(300 * time.Millisecond)

	var got map[string]string
	err := store.GetJSON(ctx, "test:key", &got)
	if err == nil {
		t.Fatal("expected error for expired key, got nil")
	}
}

func TestRecordSubmission_CachesEvenWithoutPostgres(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	defer mr.Close()

	rec := model.SubmissionRecord{
		ID:        "sub-1",
		Kind:      "contact",
		Email:     "Jane@Example.com",
		Success:   true,
		ClientID:  "client-9",
		CreatedAt: time.Now().UTC(),
	}

	// Postgres half is absent, so the durable insert fails...
	if err := store.RecordSubmission(ctx, rec); err == nil {
		t.Fatal("expected postgres unavailable error")
	}

	// ...but the cached outcome is still written, keyed case-insensitively.
	var got model.SubmissionRecord
	if err := store.GetJSON(ctx, "submission:last:jane@example.com", &got); err != nil {
		t.Fatalf("cached submission missing: %v", err)
	}
	if got.ClientID != "client-9" {
		t.Errorf("expected client-9, got %s", got.ClientID)
	}
}

func TestSaveSubscriber_PostgresUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	defer mr.Close()

	err := store.SaveSubscriber(ctx, model.Subscriber{Email: "a@b.com"})
	if err == nil {
		t.Fatal("expected postgres unavailable error")
	}
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("expected healthy store, got %v", err)
	}

	mr.Close()
	if err := store.HealthCheck(ctx); err == nil {
		t.Error("expected health check failure after redis shutdown")
	}
}
