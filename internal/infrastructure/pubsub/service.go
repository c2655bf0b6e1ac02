package pubsub

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	"github.com/fundme-network/fundme-daemon/pkg/circuitbreaker"
)

const requestTimeout = 15 * time.Second

type service struct {
	store      *store
	httpClient *client
	// one breaker per endpoint
	breakers *circuitbreaker.Breakers
}

// NewService returns a webhook pubsub persisting subscriptions in a badger db
// in the given datadir, or in memory if empty.
func NewService(datadir string, logger badger.Logger) (ports.PubSub, error) {
	store, err := newStore(datadir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening webhook db: %w", err)
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(requestTimeout),
		breakers:   circuitbreaker.NewBreakers(),
	}, nil
}

func (ws *service) Name() string {
	return "webhook"
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	hook, err := newWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := ws.store.addWebhook(hook); err != nil {
		return "", err
	}
	log.Debugf("added webhook %s for topic %s", hook.ID, topic)
	return hook.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.store.removeWebhook(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	hooks, err := ws.store.getWebhooksForTopic(topic)
	if err != nil {
		log.WithError(err).Warnf("failed to list webhooks for topic %s", topic)
		return nil
	}
	subs := make([]ports.Subscription, 0, len(hooks))
	for _, hook := range hooks {
		subs = append(subs, hook.toSubscription())
	}
	return subs
}

// Publish notifies concurrently every endpoint subscribed for the topic.
func (ws *service) Publish(
	ctx context.Context, topic string, message []byte,
) error {
	if topic == ports.UnspecifiedTopic || topic == ports.AnyTopic {
		return fmt.Errorf("cannot publish for topic %q", topic)
	}
	hooks, err := ws.store.getWebhooksForTopic(topic)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.notify(ctx, hook, topic, message) })
	}
	return eg.Wait()
}

func (ws *service) Close() error {
	return ws.store.close()
}

func (ws *service) notify(
	ctx context.Context, hook webhook, topic string, payload []byte,
) error {
	headers, err := hook.headers(topic)
	if err != nil {
		return err
	}

	_, err = ws.breakers.Execute(hook.Endpoint, func() (interface{}, error) {
		status, resp, err := ws.httpClient.post(ctx, hook.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"webhook %s replied with status %d: %s", hook.ID, status, resp,
			)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("notifying webhook %s: %w", hook.ID, err)
	}
	return nil
}
