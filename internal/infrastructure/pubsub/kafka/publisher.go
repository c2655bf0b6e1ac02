package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

const defaultTopicPrefix = "fundme"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type publisher struct {
	writer      messageWriter
	topicPrefix string
}

// NewPublisher returns a publisher writing every event to the kafka topic
// <prefix>.<event topic>, keyed by event topic.
func NewPublisher(brokers []string, topicPrefix string) (ports.Publisher, error) {
	if len(brokers) <= 0 {
		return nil, fmt.Errorf("missing kafka brokers")
	}
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, topicPrefix), nil
}

func newPublisher(writer messageWriter, topicPrefix string) *publisher {
	if topicPrefix == "" {
		topicPrefix = defaultTopicPrefix
	}
	return &publisher{writer, topicPrefix}
}

func (p *publisher) Name() string {
	return "kafka"
}

func (p *publisher) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topicFor(topic),
		Key:   []byte(topic),
		Value: message,
		Time:  time.Now(),
	})
}

func (p *publisher) Close() error {
	return p.writer.Close()
}

func (p *publisher) topicFor(topic string) string {
	return fmt.Sprintf("%s.%s", p.topicPrefix, topic)
}

var _ ports.Publisher = (*publisher)(nil)
