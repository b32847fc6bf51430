package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hourglass/internal/notify"
	"hourglass/internal/repository"
)

// Deliverer turns outbox messages into notifications.
type Deliverer interface {
	Deliver(ctx context.Context, outboxID string) error
	DeliverPending(ctx context.Context, limit int) (int, error)
}

type Processor struct {
	logger    zerolog.Logger
	deliverer Deliverer
	batchSize int
}

type TaskPayload struct {
	Type     string `json:"type"`
	OutboxID string `json:"outboxId"`
}

func NewProcessor(deliverer Deliverer, batchSize int, logger zerolog.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Processor{
		logger:    logger,
		deliverer: deliverer,
		batchSize: batchSize,
	}
}

// Handle runs one stream message. A nil return acks the message; an error
// leaves it pending for the consumer to reclaim.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping undecodable task")
		return nil
	}

	switch payload.Type {
	case notify.TaskDeliver:
		return p.handleDeliver(ctx, payload)
	case notify.TaskSweep:
		return p.handleSweep(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handleDeliver(ctx context.Context, payload TaskPayload) error {
	if payload.OutboxID == "" {
		p.logger.Warn().Msg("deliver task without outbox id")
		return nil
	}
	if err := p.deliverer.Deliver(ctx, payload.OutboxID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			p.logger.Warn().Str("outbox_id", payload.OutboxID).Msg("outbox message not found")
			return nil
		}
		return fmt.Errorf("deliver %s: %w", payload.OutboxID, err)
	}
	p.logger.Debug().Str("outbox_id", payload.OutboxID).Msg("notification delivered")
	return nil
}

func (p *Processor) handleSweep(ctx context.Context) error {
	delivered, err := p.deliverer.DeliverPending(ctx, p.batchSize)
	if delivered > 0 {
		p.logger.Info().Int("delivered", delivered).Msg("outbox sweep delivered pending notifications")
	}
	if err != nil {
		return fmt.Errorf("outbox sweep: %w", err)
	}
	return nil
}
