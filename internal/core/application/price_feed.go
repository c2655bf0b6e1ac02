package application

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

// aggregatorPriceFeed reads prices from a mock aggregator deployed on chain.
type aggregatorPriceFeed struct {
	repository domain.AggregatorRepository
	address    common.Address
}

func newAggregatorPriceFeed(
	repository domain.AggregatorRepository, address common.Address,
) aggregatorPriceFeed {
	return aggregatorPriceFeed{repository, address}
}

func (f aggregatorPriceFeed) Decimals(ctx context.Context) (uint8, error) {
	aggregator, err := f.repository.GetAggregator(ctx, f.address)
	if err != nil {
		return 0, err
	}
	return aggregator.Decimals, nil
}

func (f aggregatorPriceFeed) LatestRoundData(
	ctx context.Context,
) (domain.RoundData, error) {
	aggregator, err := f.repository.GetAggregator(ctx, f.address)
	if err != nil {
		return domain.RoundData{}, err
	}
	return aggregator.LatestRoundData(), nil
}
