package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
)

// Producer is satisfied by broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type KafkaPublisher struct {
	producer Producer
}

func NewKafkaPublisher(p Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

// PublishBillCompleted keys the message by bill id so redeliveries of one bill stay ordered.
func (p *KafkaPublisher) PublishBillCompleted(ctx context.Context, event *dto.BillCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal bill event: %w", err)
	}
	return p.producer.Publish(ctx, event.Payload.ID, data)
}
