package inmemory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

type AggregatorRepositoryImpl struct {
	aggregators map[common.Address]domain.Aggregator
	lock        *sync.RWMutex
}

// NewAggregatorRepositoryImpl returns a new empty in-memory
// AggregatorRepository.
func NewAggregatorRepositoryImpl() *AggregatorRepositoryImpl {
	return &AggregatorRepositoryImpl{
		aggregators: make(map[common.Address]domain.Aggregator),
		lock:        &sync.RWMutex{},
	}
}

func (r *AggregatorRepositoryImpl) AddAggregator(
	_ context.Context, aggregator *domain.Aggregator,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.aggregators[aggregator.Address]; ok {
		return ErrAggregatorAlreadyExists
	}
	r.aggregators[aggregator.Address] = copyAggregator(*aggregator)
	return nil
}

func (r *AggregatorRepositoryImpl) GetAggregator(
	_ context.Context, address common.Address,
) (*domain.Aggregator, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getAggregator(address)
}

func (r *AggregatorRepositoryImpl) UpdateAggregator(
	_ context.Context,
	address common.Address,
	updateFn func(a *domain.Aggregator) (*domain.Aggregator, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	aggregator, err := r.getAggregator(address)
	if err != nil {
		return err
	}

	updatedAggregator, err := updateFn(aggregator)
	if err != nil {
		return err
	}

	r.aggregators[address] = copyAggregator(*updatedAggregator)
	return nil
}

func (r *AggregatorRepositoryImpl) getAggregator(
	address common.Address,
) (*domain.Aggregator, error) {
	aggregator, ok := r.aggregators[address]
	if !ok {
		return nil, domain.ErrAggregatorNotFound
	}
	a := copyAggregator(aggregator)
	return &a, nil
}

func (r *AggregatorRepositoryImpl) snapshot() func() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	aggregators := make(map[common.Address]domain.Aggregator, len(r.aggregators))
	for addr, a := range r.aggregators {
		aggregators[addr] = copyAggregator(a)
	}

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.aggregators = aggregators
	}
}
