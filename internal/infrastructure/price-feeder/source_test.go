package pricefeederinfra_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	pricefeederinfra "github.com/fundme-network/fundme-daemon/internal/infrastructure/price-feeder"
	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

func TestPriceSource(t *testing.T) {
	feeder := newMockFeeder()
	source := pricefeederinfra.NewPriceSourceFromFeeder("mock", feeder)
	require.Equal(t, "mock", source.Name())

	ticks, err := source.Start(context.Background())
	require.NoError(t, err)
	require.Len(t, feeder.ListSubscriptions(), 1)

	_, err = source.Start(context.Background())
	require.Error(t, err)

	now := time.Now()
	feeder.feedCh <- pricefeeder.PriceFeed{
		Market: pricefeeder.EthUsdMarket("ETH-USD"),
		Price:  decimal.RequireFromString("1850.12"),
		Time:   now,
	}

	select {
	case tick := <-ticks:
		require.Equal(t, "mock", tick.Source)
		require.Equal(t, now.Unix(), tick.Time)
		require.True(t, decimal.RequireFromString("1850.12").Equal(tick.Price))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for price tick")
	}

	source.Stop()
	select {
	case _, ok := <-ticks:
		require.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("tick chan not closed after stop")
	}
}

func TestNewPriceSource(t *testing.T) {
	require.True(t, pricefeederinfra.IsValidSource(pricefeederinfra.SourceKraken))
	require.False(t, pricefeederinfra.IsValidSource("binance"))

	_, err := pricefeederinfra.NewPriceSource("binance", "")
	require.Error(t, err)
}

func TestLiveFeed(t *testing.T) {
	ctx := context.Background()
	feed := pricefeederinfra.NewLiveFeed()

	decimals, err := feed.Decimals(ctx)
	require.NoError(t, err)
	require.Equal(t, uint8(pricefeederinfra.LiveFeedDecimals), decimals)

	_, err = feed.LatestRoundData(ctx)
	require.ErrorIs(t, err, pricefeederinfra.ErrNoPriceYet)

	require.False(t, feed.Update(ports.PriceTick{Price: decimal.Zero}))

	ticks := make(chan ports.PriceTick, 2)
	ticks <- ports.PriceTick{Price: decimal.RequireFromString("2000"), Time: 10}
	ticks <- ports.PriceTick{
		Price: decimal.RequireFromString("1850.123456789"), Time: 20,
	}
	close(ticks)
	feed.Watch(ctx, ticks)

	round, err := feed.LatestRoundData(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), round.RoundID)
	require.Equal(t, uint64(2), round.AnsweredInRound)
	require.Equal(t, "185012345678", round.Answer.String())
	require.Equal(t, int64(20), round.UpdatedAt)

	// Answers are copied.
	round.Answer.SetInt64(0)
	round, err = feed.LatestRoundData(ctx)
	require.NoError(t, err)
	require.Equal(t, "185012345678", round.Answer.String())
}
