package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher(t *testing.T) {
	writer := &fakeWriter{}
	p := newPublisher(writer, "")
	require.Equal(t, "kafka", p.Name())

	err := p.Publish(context.Background(), ports.TopicFunded, []byte(`{}`))
	require.NoError(t, err)
	err = p.Publish(context.Background(), ports.TopicWithdrawn, []byte(`{"a":1}`))
	require.NoError(t, err)

	require.Len(t, writer.messages, 2)
	require.Equal(t, "fundme.funded", writer.messages[0].Topic)
	require.Equal(t, []byte(ports.TopicFunded), writer.messages[0].Key)
	require.Equal(t, "fundme.withdrawn", writer.messages[1].Topic)
	require.Equal(t, `{"a":1}`, string(writer.messages[1].Value))

	require.NoError(t, p.Close())
	require.True(t, writer.closed)
}

func TestPublisherFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker not available")}
	p := newPublisher(writer, "events")

	err := p.Publish(context.Background(), ports.TopicFunded, []byte(`{}`))
	require.EqualError(t, err, "broker not available")
	require.Equal(t, "events.funded", p.topicFor(ports.TopicFunded))

	_, err = NewPublisher(nil, "")
	require.Error(t, err)
}
