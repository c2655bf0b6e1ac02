package domain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestAggregator(t *testing.T) {
	t.Parallel()

	a, err := domain.NewAggregator(
		priceFeedAddress, domain.DefaultMockDecimals, initialAnswer, 100,
	)
	require.NoError(t, err)

	round := a.LatestRoundData()
	require.Equal(t, uint64(1), round.RoundID)
	require.Equal(t, initialAnswer, round.Answer)
	require.Equal(t, int64(100), round.UpdatedAt)

	a.UpdateAnswer(big.NewInt(300000000000), 200)
	round = a.LatestRoundData()
	require.Equal(t, uint64(2), round.RoundID)
	require.Equal(t, big.NewInt(300000000000), round.Answer)

	first, err := a.GetRoundData(1)
	require.NoError(t, err)
	require.Equal(t, initialAnswer, first.Answer)

	a.UpdateRoundData(10, big.NewInt(1), 300, 250)
	round = a.LatestRoundData()
	require.Equal(t, uint64(10), round.RoundID)
	require.Equal(t, int64(250), round.StartedAt)

	_, err = a.GetRoundData(5)
	require.ErrorIs(t, err, domain.ErrRoundNotFound)

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewAggregator(common.Address{}, 8, initialAnswer, 0)
		require.ErrorIs(t, err, domain.ErrNullAddress)
		_, err = domain.NewAggregator(priceFeedAddress, 40, initialAnswer, 0)
		require.ErrorIs(t, err, domain.ErrInvalidDecimals)
	})
}

func TestAccount(t *testing.T) {
	t.Parallel()

	acc := domain.NewAccount(ownerAddress, oneEth)
	require.False(t, acc.IsContract())

	require.NoError(t, acc.Debit(ether(1, 2)))
	require.Equal(t, ether(1, 2), acc.GetBalance())
	require.ErrorIs(t, acc.Debit(oneEth), domain.ErrInsufficientFunds)

	acc.RejectsPayments = true
	require.ErrorIs(t, acc.Receive(oneEth), domain.ErrTransferFailed)
	require.NoError(t, acc.Receive(big.NewInt(0)))
	require.Equal(t, ether(1, 2), acc.GetBalance())
}

func TestNetwork(t *testing.T) {
	t.Parallel()

	require.True(t, domain.Network{Name: "hardhat"}.IsDevelopmentChain())
	require.True(t, domain.Network{Name: "localhost"}.IsDevelopmentChain())
	require.True(t, domain.Network{Name: "anvil", ChainID: 31337}.IsDevelopmentChain())

	sepolia := domain.Network{Name: "sepolia", ChainID: 11155111}
	require.False(t, sepolia.IsDevelopmentChain())
	cfg, err := sepolia.Config()
	require.NoError(t, err)
	require.Equal(
		t, common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306"),
		cfg.EthUsdPriceFeed,
	)
	require.Equal(t, 6, sepolia.BlockConfirmations())

	_, err = domain.Network{Name: "mainnet", ChainID: 1}.Config()
	require.ErrorIs(t, err, domain.ErrUnknownNetwork)
}
