package pricefeeder

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceFeeder streams the ticker prices of the subscribed markets from an
// exchange websocket API.
type PriceFeeder interface {
	WellKnownMarkets() []Market
	SubscribeMarkets([]Market) error
	UnsubscribeMarkets([]Market) error
	ListSubscriptions() []Market

	// Start returns the channel where a new feed is sent every time the price
	// of a subscribed market changes. The channel is closed by Stop.
	Start() chan PriceFeed
	Stop()
}

// Exchange is the protocol spoken by an exchange websocket API.
type Exchange interface {
	Name() string
	Markets() []Market
	// SubscribeMessages and UnsubscribeMessages return the requests to send,
	// each encoded as json, to (un)subscribe the ticker channels of the given
	// markets.
	SubscribeMessages(tickers []string) []interface{}
	UnsubscribeMessages(tickers []string) []interface{}
	// ParsePrice returns the market ticker and last price carried by msg, if
	// it is a ticker update.
	ParsePrice(msg []byte) (string, decimal.Decimal, bool)
}

type PriceFeed struct {
	Market Market
	// Price is the amount of quote asset for one unit of base asset.
	Price decimal.Decimal
	Time  time.Time
}

type Market struct {
	BaseAsset  string
	QuoteAsset string
	Ticker     string
}

// EthUsdMarket is the ETH/USD market used by FundMe price feeds.
func EthUsdMarket(ticker string) Market {
	return Market{
		BaseAsset:  "ETH",
		QuoteAsset: "USD",
		Ticker:     ticker,
	}
}
