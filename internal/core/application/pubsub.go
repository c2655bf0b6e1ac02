package application

import "context"

// EventPublisher notifies external systems about FundMe events.
type EventPublisher interface {
	PublishFundedEvent(ctx context.Context, event FundedEvent) error
	PublishWithdrawnEvent(ctx context.Context, event WithdrawnEvent) error
}
