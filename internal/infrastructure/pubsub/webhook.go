package pubsub

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

var (
	// ErrMissingTopic ...
	ErrMissingTopic = errors.New("missing webhook topic")
	// ErrInvalidEndpoint is returned if the endpoint is not an absolute http(s)
	// url.
	ErrInvalidEndpoint = errors.New("webhook endpoint must be an http(s) url")
)

// webhook is the stored form of a subscription.
type webhook struct {
	ID        string `badgerhold:"key"`
	Topic     string `badgerholdIndex:"Topic"`
	Endpoint  string
	Secret    string
	CreatedAt int64
}

func newWebhook(topic, endpoint, secret string) (*webhook, error) {
	if topic == ports.UnspecifiedTopic {
		return nil, ErrMissingTopic
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidEndpoint
	}
	return &webhook{
		ID:        uuid.New().String(),
		Topic:     topic,
		Endpoint:  endpoint,
		Secret:    secret,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// headers returns the headers of a notification for the given topic. Secured
// webhooks get an HS256 bearer token signed with their secret.
func (w webhook) headers(topic string) (map[string]string, error) {
	headers := map[string]string{"Content-Type": "application/json"}
	if len(w.Secret) <= 0 {
		return headers, nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"topic": topic,
		"iat":   time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(w.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing webhook token: %w", err)
	}
	headers["Authorization"] = "Bearer " + signed
	return headers, nil
}

func (w webhook) toSubscription() ports.Subscription {
	return subscription{w.ID, w.Topic, w.Endpoint, len(w.Secret) > 0}
}

// subscription is the read-only view of a webhook, secret excluded.
type subscription struct {
	id       string
	topic    string
	endpoint string
	secured  bool
}

func (s subscription) Topic() string    { return s.topic }
func (s subscription) Id() string       { return s.id }
func (s subscription) NotifyAt() string { return s.endpoint }
func (s subscription) IsSecured() bool  { return s.secured }
