package events

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeOrderPlaced    = "order.placed"
	TypeOrderCancelled = "order.cancelled"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"orderId"`
	TotalPrice float64   `json:"totalPrice"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits order lifecycle events. Publishing is best-effort: a
// checkout never fails because the broker is down.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent)
}

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher builds a publisher from a comma-separated broker list.
// An empty list yields a no-op publisher.
func NewKafkaPublisher(brokersCSV, topic string, logger *zap.Logger) Publisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		return NoopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshaling order event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: data,
		Time:  time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publishing order event",
			zap.String("type", event.Type),
			zap.Uint("orderId", event.OrderID),
			zap.Error(err),
		)
	}
}

type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) {}
