package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/furnishd/staging-service/internal/reservation"
	"github.com/furnishd/staging-service/pkg/broker"
	"github.com/furnishd/staging-service/pkg/logger"
	"go.uber.org/zap"
)

// ReservationListener consumes logistics events and restores returned items
// to warehouse circulation.
type ReservationListener struct {
	consumer *broker.KafkaConsumer
	uc       reservation.UseCase
	logger   logger.ZapLogger
}

func NewReservationListener(consumer *broker.KafkaConsumer, uc reservation.UseCase, logger logger.ZapLogger) *ReservationListener {
	return &ReservationListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *ReservationListener) Start(ctx context.Context) {
	l.logger.Info("Starting Reservation Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Reservation Kafka Listener")
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

type DeliveryReturnedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   ReturnedPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type ReturnedPayload struct {
	ListID      string                `json:"list_id"`
	WarehouseID string                `json:"warehouse_id"`
	Items       []ReturnedItemPayload `json:"items"`
}

type ReturnedItemPayload struct {
	ItemID string `json:"item_id"`
}

func (l *ReservationListener) processMessage(ctx context.Context, value []byte) {
	var event DeliveryReturnedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "DeliveryReturned" {
		return
	}

	l.logger.Info("Processing DeliveryReturned event", zap.String("list_id", event.Payload.ListID))

	for _, item := range event.Payload.Items {
		if err := l.uc.RestoreItem(ctx, item.ItemID, event.Payload.WarehouseID); err != nil {
			l.logger.Error("Failed to restore returned item",
				zap.String("list_id", event.Payload.ListID),
				zap.String("item_id", item.ItemID),
				zap.Error(err),
			)
		}
	}
}
