// Package events публикует события жизненного цикла бронирований в Kafka.
// Публикация не участвует в транзакции бронирования: ошибка публикации
// логируется, но не откатывает уже сохраненное бронирование
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в Kafka
type Publisher struct {
	writer *kafka.Writer
	logger Logger
}

// NewPublisher создает новый экземпляр публикатора событий
// Ключ сообщения - "tenantID:bookingID", хеш-балансировка сохраняет
// порядок событий одного бронирования внутри партиции
func NewPublisher(brokers []string, topic string, logger Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish публикует событие жизненного цикла бронирования
func (p *Publisher) Publish(ctx context.Context, eventType EventType, booking *domain.Booking) error {
	event := BookingEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    payloadFromDomain(booking),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s for booking=%d: %w", eventType, booking.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d:%d", booking.TenantID, booking.ID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.EventID)},
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "source", Value: []byte("scheduling-service")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s for booking=%d: %w", eventType, booking.ID, err)
	}

	p.logger.Info("Published %s event for booking=%d tenant=%d", eventType, booking.ID, booking.TenantID)
	return nil
}

// Close закрывает соединение с Kafka
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher заглушка публикатора для окружений без Kafka
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(_ context.Context, _ EventType, _ *domain.Booking) error {
	return nil
}

// Close ничего не делает
func (NopPublisher) Close() error {
	return nil
}
