package notifier

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/iho/bankledger/internal/domain"
)

// StreamPublisher appends notifications to a Redis stream, trimmed to
// roughly maxLen entries.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher creates a new StreamPublisher. maxLen <= 0 disables trimming.
func NewStreamPublisher(client *redis.Client, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Name implements Publisher.
func (p *StreamPublisher) Name() string { return "stream" }

// Publish implements Publisher.
func (p *StreamPublisher) Publish(ctx context.Context, n domain.Notification) error {
	payload, err := encode(n)
	if err != nil {
		return Permanent(err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":    string(n.Type),
			"utr":     n.UTR,
			"payload": string(payload),
		},
	}

	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	return p.client.XAdd(ctx, args).Err()
}
