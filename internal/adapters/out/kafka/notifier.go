// Package kafka publishes order notifications for the messaging services of
// the portals.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter keys messages by order number so events of one order stay on one
// partition in commit order.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the published message value.
type Event struct {
	Type        string      `json:"type"`
	OrderID     int64       `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Action      string      `json:"action"`
	Status      string      `json:"status"`
	Audience    kernel.Role `json:"audience"`
	AudienceID  int64       `json:"audienceId,omitempty"`
	Message     string      `json:"message"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

// Notifier implements ports.Notifier on a Kafka topic.
type Notifier struct {
	writer messageWriter
	now    func() time.Time
}

func NewNotifier(writer *kafka.Writer) *Notifier {
	return newNotifier(writer)
}

func newNotifier(writer messageWriter) *Notifier {
	return &Notifier{writer: writer, now: func() time.Time { return time.Now().UTC() }}
}

func (n *Notifier) Notify(ctx context.Context, e effect.Effect) error {
	if n == nil || n.writer == nil {
		return ErrDisabled
	}
	data, err := json.Marshal(Event{
		Type:        "order.status_changed",
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		Action:      e.Action.String(),
		Status:      e.Status.String(),
		Audience:    e.Audience,
		AudienceID:  e.AudienceID,
		Message:     e.Message,
		OccurredAt:  n.now(),
	})
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.OrderNumber), Value: data, Time: n.now()})
}

func (n *Notifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
