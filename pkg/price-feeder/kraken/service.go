package krakenfeeder

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

// KrakenWebSocketURL is the base url to open a connection with kraken.
const KrakenWebSocketURL = "wss://ws.kraken.com"

type exchange struct{}

func NewService() (pricefeeder.PriceFeeder, error) {
	return NewServiceWithURL(KrakenWebSocketURL)
}

// NewServiceWithURL returns a feeder connected to the given websocket url.
func NewServiceWithURL(url string) (pricefeeder.PriceFeeder, error) {
	return pricefeeder.NewWebSocketFeeder(url, exchange{})
}

func (exchange) Name() string {
	return "kraken"
}

func (exchange) Markets() []pricefeeder.Market {
	return []pricefeeder.Market{pricefeeder.EthUsdMarket("ETH/USD")}
}

func (exchange) SubscribeMessages(tickers []string) []interface{} {
	return []interface{}{newRequest("subscribe", tickers)}
}

func (exchange) UnsubscribeMessages(tickers []string) []interface{} {
	return []interface{}{newRequest("unsubscribe", tickers)}
}

// ParsePrice reads the last trade closed price from messages like:
// [channelID, {"c": ["price", "volume"], ...}, "ticker", "ETH/USD"]
func (exchange) ParsePrice(msg []byte) (string, decimal.Decimal, bool) {
	var parts []json.RawMessage
	if err := json.Unmarshal(msg, &parts); err != nil || len(parts) != 4 {
		return "", decimal.Zero, false
	}

	var channel, ticker string
	if err := json.Unmarshal(parts[2], &channel); err != nil || channel != "ticker" {
		return "", decimal.Zero, false
	}
	if err := json.Unmarshal(parts[3], &ticker); err != nil {
		return "", decimal.Zero, false
	}

	var info struct {
		Close []string `json:"c"`
	}
	if err := json.Unmarshal(parts[1], &info); err != nil || len(info.Close) < 1 {
		return "", decimal.Zero, false
	}
	price, err := decimal.NewFromString(info.Close[0])
	if err != nil {
		return "", decimal.Zero, false
	}
	return ticker, price, true
}

type subscription struct {
	Name string `json:"name"`
}

type request struct {
	Event        string       `json:"event"`
	Pair         []string     `json:"pair"`
	Subscription subscription `json:"subscription"`
}

func newRequest(event string, tickers []string) request {
	return request{event, tickers, subscription{"ticker"}}
}
