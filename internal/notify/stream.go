package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher appends one deliver task per outbox id to a Redis stream
// read by the worker's consumer group.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, outboxIDs []string) error {
	pipe := p.client.Pipeline()
	for _, id := range outboxIDs {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{
				"type":     TaskDeliver,
				"outboxId": id,
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// EnqueueSweep asks the worker to retry every pending outbox message.
func (p *StreamPublisher) EnqueueSweep(ctx context.Context) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"type": TaskSweep},
	}).Err()
}
