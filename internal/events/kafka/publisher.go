package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/ports/publishers"
	"github.com/segmentio/kafka-go"
)

// EntryPostedEventType is carried in the event-type header of every message.
const EntryPostedEventType = "ledger.entry_posted"

// Publisher writes ledger events to a Kafka topic. Messages are keyed by
// student ID so events of one student stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishEntryPosted implements publishers.LedgerEventPublisher.
func (p *Publisher) PublishEntryPosted(ctx context.Context, event domain.EntryPostedEvent) error {
	msg, err := entryPostedMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish entry %d: %w", event.EntryID, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func entryPostedMessage(event domain.EntryPostedEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode entry posted event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.StudentID),
		Value: data,
		Time:  event.PostedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EntryPostedEventType)},
		},
	}, nil
}

var _ publishers.LedgerEventPublisher = (*Publisher)(nil)
