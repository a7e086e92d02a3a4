package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, ClientConfig{URL: fmt.Sprintf("redis://%s", s.Addr()), PoolSize: 4, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if client.Options().PoolSize != 4 {
		t.Fatalf("expected pool size 4, got %d", client.Options().PoolSize)
	}

	if err := (Pinger{Client: client}).Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{URL: "://bad-url"})
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), ClientConfig{URL: url, DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}
