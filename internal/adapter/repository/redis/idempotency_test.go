package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists || string(resp) != "cached" {
		t.Fatalf("expected existing cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"pending").Result()
	if err != nil || val != ProcessingMarker {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}

	exists, resp, err = store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || !exists || string(resp) != ProcessingMarker {
		t.Fatalf("expected second caller to see marker, got exists=%v resp=%s err=%v", exists, resp, err)
	}

	if ttl := mr.TTL(store.prefix + "pending"); ttl <= 0 {
		t.Fatalf("expected ttl on claimed key, got %v", ttl)
	}
}

func TestIdempotencyStore_Update(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "complete", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if err := store.Update(ctx, "complete", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "complete", nil, time.Minute)
	if err != nil || !exists || string(resp) != "done" {
		t.Fatalf("expected stored response, got exists=%v resp=%s err=%v", exists, resp, err)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "retry", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if err := store.Release(ctx, "retry"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	exists, _, err := store.CheckAndSet(ctx, "retry", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected released key to be claimable again, exists=%v err=%v", exists, err)
	}
}
