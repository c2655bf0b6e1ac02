package application_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

func TestLatestPrice(t *testing.T) {
	svc := newServices(t, application.NodeConfig{})

	_, err := svc.priceSvc.LatestPrice(ctx)
	require.ErrorIs(t, err, application.ErrFundMeNotDeployed)

	_, err = svc.deploySvc.Deploy(ctx, []string{application.DeployTagMocks})
	require.NoError(t, err)

	price, err := svc.priceSvc.LatestPrice(ctx)
	require.NoError(t, err)
	require.Equal(t, uint8(8), price.Decimals)
	require.Equal(t, "200000000000", price.Answer.String())
	require.Equal(t, ether("2000").String(), price.Price().String())

	_, err = svc.deploySvc.Deploy(ctx, []string{application.DeployTagFundMe})
	require.NoError(t, err)

	fundMePrice, err := svc.priceSvc.LatestPrice(ctx)
	require.NoError(t, err)
	require.Equal(t, price.PriceFeed, fundMePrice.PriceFeed)
}

func TestUpdateMockPrice(t *testing.T) {
	t.Run("changes the minimum contribution", func(t *testing.T) {
		svc := newDeployedServices(t, application.NodeConfig{})

		_, err := svc.fundMeSvc.Fund(ctx, svc.deployer, ether("0.025"))
		require.NoError(t, err)

		receipt, err := svc.priceSvc.UpdateMockPrice(
			ctx, common.Address{}, big.NewInt(100000000000),
		)
		require.NoError(t, err)
		require.Equal(t, svc.deployer, receipt.From)
		require.Equal(t, application.MethodUpdateAnswer, receipt.Method)

		price, err := svc.priceSvc.LatestPrice(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), price.RoundID)
		require.Equal(t, ether("1000").String(), price.Price().String())

		_, err = svc.fundMeSvc.Fund(ctx, svc.deployer, ether("0.025"))
		require.ErrorIs(t, err, domain.ErrInsufficientContribution)
		_, err = svc.fundMeSvc.Fund(ctx, svc.deployer, ether("0.05"))
		require.NoError(t, err)
	})

	t.Run("fails without mocks", func(t *testing.T) {
		svc := newServices(t, application.NodeConfig{})

		_, err := svc.priceSvc.UpdateMockPrice(ctx, svc.deployer, big.NewInt(1))
		require.ErrorIs(t, err, application.ErrMissingPriceFeed)
	})

	t.Run("fails on live network", func(t *testing.T) {
		svc := newServices(t, application.NodeConfig{Network: sepolia})

		_, err := svc.priceSvc.UpdateMockPrice(ctx, svc.deployer, big.NewInt(1))
		require.ErrorIs(t, err, application.ErrNotDevelopmentChain)
	})
}
