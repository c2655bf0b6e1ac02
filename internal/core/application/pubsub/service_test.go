package pubsub_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/application/pubsub"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

var (
	ctx    = context.Background()
	funder = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Name() string {
	return "mock"
}

func (m *mockPublisher) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockPubSub struct {
	mockPublisher
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(topic, id string) error {
	args := m.Called(topic, id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	args := m.Called(topic)
	return args.Get(0).([]ports.Subscription)
}

type subscription struct {
	id, topic, endpoint string
	secured             bool
}

func (s subscription) Id() string       { return s.id }
func (s subscription) Topic() string    { return s.topic }
func (s subscription) NotifyAt() string { return s.endpoint }
func (s subscription) IsSecured() bool  { return s.secured }

func TestWebhooks(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := pubsub.NewService(nil)

		_, err := svc.AddWebhook(ctx, ports.TopicFunded, "http://localhost", "")
		require.ErrorIs(t, err, pubsub.ErrWebhooksDisabled)
		err = svc.RemoveWebhook(ctx, "id")
		require.ErrorIs(t, err, pubsub.ErrWebhooksDisabled)
		_, err = svc.ListWebhooks(ctx, "")
		require.ErrorIs(t, err, pubsub.ErrWebhooksDisabled)
	})

	t.Run("enabled", func(t *testing.T) {
		ps := &mockPubSub{}
		ps.On("Subscribe", ports.TopicFunded, "http://localhost/hook", "secret").
			Return("id", nil)
		ps.On("Unsubscribe", ports.UnspecifiedTopic, "id").Return(nil)
		ps.On("ListSubscriptionsForTopic", ports.TopicFunded).Return(
			[]ports.Subscription{
				subscription{"id", ports.TopicFunded, "http://localhost/hook", true},
			},
		)
		svc := pubsub.NewService(ps)

		id, err := svc.AddWebhook(
			ctx, ports.TopicFunded, "http://localhost/hook", "secret",
		)
		require.NoError(t, err)
		require.Equal(t, "id", id)

		_, err = svc.AddWebhook(ctx, "trade_settled", "http://localhost/hook", "")
		require.ErrorIs(t, err, pubsub.ErrInvalidTopic)

		webhooks, err := svc.ListWebhooks(ctx, ports.TopicFunded)
		require.NoError(t, err)
		require.Equal(t, []pubsub.WebhookInfo{{
			Id:        "id",
			Topic:     ports.TopicFunded,
			Endpoint:  "http://localhost/hook",
			IsSecured: true,
		}}, webhooks)

		_, err = svc.ListWebhooks(ctx, "unknown")
		require.ErrorIs(t, err, pubsub.ErrInvalidTopic)

		require.NoError(t, svc.RemoveWebhook(ctx, "id"))
		ps.AssertExpectations(t)
	})
}

func TestPublish(t *testing.T) {
	ps := &mockPubSub{}
	ps.On("Publish", mock.Anything, ports.TopicFunded, mock.Anything).Return(nil)
	ps.On("Publish", mock.Anything, ports.TopicWithdrawn, mock.Anything).
		Return(errors.New("webhook unreachable"))
	ps.On("Close").Return(nil)

	other := &mockPublisher{}
	other.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	other.On("Close").Return(errors.New("already closed"))

	svc := pubsub.NewService(ps, other)

	err := svc.PublishFundedEvent(ctx, application.FundedEvent{
		Contract:    common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		Funder:      funder,
		Amount:      big.NewInt(1e18),
		Balance:     big.NewInt(2e18),
		BlockNumber: 3,
		Timestamp:   time.Now().Unix(),
	})
	require.NoError(t, err)

	// Every publisher is tried even if one fails.
	err = svc.PublishWithdrawnEvent(ctx, application.WithdrawnEvent{
		Owner:  funder,
		Amount: big.NewInt(2e18),
		Method: application.MethodCheaperWithdraw,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "webhook unreachable")
	other.AssertNumberOfCalls(t, "Publish", 2)

	call := other.Calls[0]
	require.Equal(t, ports.TopicFunded, call.Arguments.String(1))
	payload := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(call.Arguments.Get(2).([]byte), &payload))
	require.Equal(t, ports.TopicFunded, payload["event"])
	require.Equal(t, funder.Hex(), payload["funder"])
	require.Equal(t, "1000000000000000000", payload["amount"])
	require.Equal(t, "1", payload["amount_eth"])
	require.NotEmpty(t, payload["id"])

	svc.Close()
	ps.AssertCalled(t, "Close")
	other.AssertCalled(t, "Close")
}
