package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/quickbite/kiosk-api/internal/logging"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

// HandlerFunc processes a decoded payment notification.
type HandlerFunc func(ctx context.Context, msg usecase.PaymentNotificationMsg) error

// Consumer consumes the payment notifications topic with a single
// handler.
type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	handle HandlerFunc
	log    *slog.Logger
}

func NewGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true
	return sarama.NewConsumerGroup(brokers, groupID, cfg)
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		group:  group,
		topics: topics,
		handle: h,
		log:    logging.New("kafka-consumer"),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.handle, log: c.log}
	for {
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			return err
		}
		// Consume returns on rebalance or cancellation.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	log    *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.PaymentNotificationMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.log.Error("decode failed", "offset", msg.Offset, "err", err)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			h.log.Error("handler failed", "key", string(msg.Key), "offset", msg.Offset, "err", err)
			// not marked; redelivered on the next poll
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
