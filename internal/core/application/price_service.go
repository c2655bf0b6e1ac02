package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
	"github.com/fundme-network/fundme-daemon/pkg/stats"
)

// PriceService reads the ETH/USD price used by FundMe and, on development
// chains, lets updating the answer of the mock aggregator.
type PriceService interface {
	// LatestPrice returns the latest answer of the price feed used by FundMe,
	// or of the mock aggregator if FundMe is not deployed yet.
	LatestPrice(ctx context.Context) (*PriceInfo, error)
	// UpdateMockPrice records a new answer in the mock aggregator. A zero from
	// address defaults to the deployer.
	UpdateMockPrice(
		ctx context.Context, from common.Address, answer *big.Int,
	) (*domain.Receipt, error)
}

type priceService struct {
	node      NodeService
	deploySvc DeployService
}

func NewPriceService(node NodeService, deploySvc DeployService) PriceService {
	return &priceService{node, deploySvc}
}

func (s *priceService) LatestPrice(ctx context.Context) (*PriceInfo, error) {
	address, err := s.priceFeedAddress(ctx)
	if err != nil {
		return nil, err
	}

	feed, err := s.node.PriceFeedAt(ctx, address)
	if err != nil {
		return nil, err
	}
	decimals, err := feed.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	round, err := feed.LatestRoundData(ctx)
	if err != nil {
		return nil, err
	}

	info := &PriceInfo{
		PriceFeed: address,
		RoundID:   round.RoundID,
		Answer:    round.Answer,
		Decimals:  decimals,
		UpdatedAt: round.UpdatedAt,
	}
	stats.SetEthUsdPrice(ethunit.ToFloat64(info.Price()))
	return info, nil
}

func (s *priceService) UpdateMockPrice(
	ctx context.Context, from common.Address, answer *big.Int,
) (*domain.Receipt, error) {
	if !s.node.Network().IsDevelopmentChain() {
		return nil, ErrNotDevelopmentChain
	}
	if answer == nil {
		return nil, fmt.Errorf("%w: missing answer", ErrInvalidArgs)
	}

	mock, err := s.deploySvc.GetDeployment(ctx, MockV3AggregatorDeploymentName)
	if err != nil {
		if errors.Is(err, domain.ErrDeploymentNotFound) {
			return nil, fmt.Errorf("%w: deploy mocks first", ErrMissingPriceFeed)
		}
		return nil, err
	}
	if from == (common.Address{}) {
		from = mock.Deployer
	}

	receipt, err := s.node.SendTransaction(ctx, TxRequest{
		From:   from,
		To:     mock.Address,
		Method: MethodUpdateAnswer,
		Args:   []string{answer.String()},
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("mock price feed answer updated to %s", answer)
	return receipt, nil
}

func (s *priceService) priceFeedAddress(
	ctx context.Context,
) (common.Address, error) {
	fundMe, err := s.deploySvc.GetFundMeAddress(ctx)
	if err == nil {
		res, err := s.node.Call(ctx, CallRequest{
			To:     fundMe,
			Method: MethodGetPriceFeed,
		})
		if err != nil {
			return common.Address{}, err
		}
		return res.(common.Address), nil
	}
	if !errors.Is(err, ErrFundMeNotDeployed) {
		return common.Address{}, err
	}

	mock, err := s.deploySvc.GetDeployment(ctx, MockV3AggregatorDeploymentName)
	if err != nil {
		if errors.Is(err, domain.ErrDeploymentNotFound) {
			return common.Address{}, ErrFundMeNotDeployed
		}
		return common.Address{}, err
	}
	return mock.Address, nil
}
