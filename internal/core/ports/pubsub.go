package ports

import (
	"context"
	"errors"
)

const (
	AnyTopic         = "*"
	UnspecifiedTopic = ""

	TopicFunded    = "funded"
	TopicWithdrawn = "withdrawn"
)

// ErrSubscriptionNotFound is returned when removing an unknown webhook.
var ErrSubscriptionNotFound = errors.New("webhook not found")

// Subscription is a webhook registered for a topic.
type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Publisher delivers events for a topic to some external system.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, topic string, message []byte) error
	Close() error
}

// PubSub defines the methods of a pubsub service that keeps track of webhook
// subscriptions.
type PubSub interface {
	Publisher
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
}
