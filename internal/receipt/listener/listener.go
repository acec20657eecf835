package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/bill/dto"
	"github.com/fekuna/omnipos-billing-service/internal/receipt"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer is satisfied by broker.KafkaConsumer.
type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ReceiptListener sends receipts for BillCompleted events.
type ReceiptListener struct {
	consumer Consumer
	uc       receipt.UseCase
	logger   logger.ZapLogger
}

func NewReceiptListener(consumer Consumer, uc receipt.UseCase, logger logger.ZapLogger) *ReceiptListener {
	return &ReceiptListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *ReceiptListener) Start(ctx context.Context) {
	l.logger.Info("Starting Receipt Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Receipt Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *ReceiptListener) processMessage(ctx context.Context, value []byte) {
	var event dto.BillCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != dto.EventBillCompleted || event.Payload == nil {
		return
	}

	delivery, err := l.uc.DeliverCompleted(ctx, event.Payload)
	if err != nil {
		l.logger.Error("Failed to deliver receipt", zap.String("bill_id", event.Payload.ID), zap.Error(err))
		return
	}
	if delivery != nil {
		l.logger.Debug("Receipt delivered from event", zap.String("bill_id", delivery.BillID))
	}
}
