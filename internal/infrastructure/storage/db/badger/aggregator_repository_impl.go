package dbbadger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type aggregatorRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAggregatorRepositoryImpl returns a badger implementation of
// domain.AggregatorRepository.
func NewAggregatorRepositoryImpl(
	store *badgerhold.Store,
) domain.AggregatorRepository {
	return aggregatorRepositoryImpl{store}
}

func (r aggregatorRepositoryImpl) AddAggregator(
	ctx context.Context, aggregator *domain.Aggregator,
) error {
	a := fromDomainAggregator(*aggregator)
	if err := insert(ctx, r.store, a.Address, a); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrAggregatorAlreadyExists
		}
		return err
	}
	return nil
}

func (r aggregatorRepositoryImpl) GetAggregator(
	ctx context.Context, address common.Address,
) (*domain.Aggregator, error) {
	var a Aggregator
	if err := get(ctx, r.store, address.Hex(), &a); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrAggregatorNotFound
		}
		return nil, err
	}
	return a.toDomain()
}

func (r aggregatorRepositoryImpl) UpdateAggregator(
	ctx context.Context,
	address common.Address,
	updateFn func(a *domain.Aggregator) (*domain.Aggregator, error),
) error {
	aggregator, err := r.GetAggregator(ctx, address)
	if err != nil {
		return err
	}

	updatedAggregator, err := updateFn(aggregator)
	if err != nil {
		return err
	}

	a := fromDomainAggregator(*updatedAggregator)
	return upsert(ctx, r.store, a.Address, a)
}
