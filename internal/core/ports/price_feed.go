package ports

import (
	"context"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceFeed is the price reference used by FundMe to convert contributions to
// USD. It's either the mock aggregator of a development chain or a live
// source.
type PriceFeed interface {
	Decimals(ctx context.Context) (uint8, error)
	LatestRoundData(ctx context.Context) (domain.RoundData, error)
}

// PriceTick is a new ETH/USD price coming from an external source.
type PriceTick struct {
	Source string
	Price  decimal.Decimal
	Time   int64
}

// PriceSource streams ETH/USD prices from an external exchange.
type PriceSource interface {
	Name() string
	// Start returns the channel of price ticks, closed when the source is
	// stopped.
	Start(ctx context.Context) (chan PriceTick, error)
	Stop()
}
