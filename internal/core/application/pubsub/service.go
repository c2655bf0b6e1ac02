package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

var (
	// ErrInvalidTopic ...
	ErrInvalidTopic = errors.New("invalid webhook topic")
	// ErrWebhooksDisabled is returned when managing webhooks without a
	// webhook pubsub.
	ErrWebhooksDisabled = errors.New("webhooks are not enabled")
)

var topics = map[string]struct{}{
	ports.TopicFunded:    {},
	ports.TopicWithdrawn: {},
	ports.AnyTopic:       {},
}

// Service manages webhook subscriptions and publishes FundMe events to the
// webhook pubsub and to any other publisher.
type Service struct {
	pubsub     ports.PubSub
	publishers []ports.Publisher
}

// NewService returns a new service. pubsub can be nil if webhooks are not
// enabled.
func NewService(pubsub ports.PubSub, publishers ...ports.Publisher) *Service {
	all := make([]ports.Publisher, 0, len(publishers)+1)
	if pubsub != nil {
		all = append(all, pubsub)
	}
	all = append(all, publishers...)
	return &Service{pubsub, all}
}

func (s *Service) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if s.pubsub == nil {
		return "", ErrWebhooksDisabled
	}
	if _, ok := topics[topic]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return ErrWebhooksDisabled
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, topic string,
) ([]WebhookInfo, error) {
	if s.pubsub == nil {
		return nil, ErrWebhooksDisabled
	}
	if topic != ports.UnspecifiedTopic {
		if _, ok := topics[topic]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
		}
	}

	subs := s.pubsub.ListSubscriptionsForTopic(topic)
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			Id:        sub.Id(),
			Topic:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

func (s *Service) PublishFundedEvent(
	ctx context.Context, event application.FundedEvent,
) error {
	return s.publish(ctx, ports.TopicFunded, getFundedPayload(event))
}

func (s *Service) PublishWithdrawnEvent(
	ctx context.Context, event application.WithdrawnEvent,
) error {
	return s.publish(ctx, ports.TopicWithdrawn, getWithdrawnPayload(event))
}

func (s *Service) Close() {
	for _, p := range s.publishers {
		if err := p.Close(); err != nil {
			log.WithError(err).Warnf("failed to close %s publisher", p.Name())
		}
	}
}

// publish sends the payload to every publisher. All of them are tried even
// if some fail.
func (s *Service) publish(
	ctx context.Context, topic string, payload map[string]interface{},
) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	errs := make([]error, 0)
	for _, p := range s.publishers {
		if err := p.Publish(ctx, topic, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// WebhookInfo ...
type WebhookInfo struct {
	Id        string `json:"id"`
	Topic     string `json:"topic"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}
