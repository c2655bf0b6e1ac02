package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// AggregatorRepository is the abstraction for any kind of database intended
// to persist mock aggregators.
type AggregatorRepository interface {
	AddAggregator(ctx context.Context, aggregator *Aggregator) error
	GetAggregator(
		ctx context.Context, address common.Address,
	) (*Aggregator, error)
	UpdateAggregator(
		ctx context.Context,
		address common.Address,
		updateFn func(a *Aggregator) (*Aggregator, error),
	) error
}
