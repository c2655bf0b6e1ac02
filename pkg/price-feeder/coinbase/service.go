package coinbasefeeder

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

// BaseURL is the url of the coinbase websocket feed.
const BaseURL = "wss://ws-feed.exchange.coinbase.com"

var channels = []string{"heartbeat", "ticker"}

type exchange struct{}

func NewService() (pricefeeder.PriceFeeder, error) {
	return NewServiceWithURL(BaseURL)
}

// NewServiceWithURL returns a feeder connected to the given websocket url.
func NewServiceWithURL(url string) (pricefeeder.PriceFeeder, error) {
	return pricefeeder.NewWebSocketFeeder(url, exchange{})
}

func (exchange) Name() string {
	return "coinbase"
}

func (exchange) Markets() []pricefeeder.Market {
	return []pricefeeder.Market{pricefeeder.EthUsdMarket("ETH-USD")}
}

func (exchange) SubscribeMessages(tickers []string) []interface{} {
	return []interface{}{request{"subscribe", tickers, channels}}
}

func (exchange) UnsubscribeMessages(tickers []string) []interface{} {
	return []interface{}{request{"unsubscribe", tickers, channels}}
}

// ParsePrice reads messages like:
// {"type":"ticker","product_id":"ETH-USD","price":"1850.12",...}
func (exchange) ParsePrice(msg []byte) (string, decimal.Decimal, bool) {
	var t tickerMessage
	if err := json.Unmarshal(msg, &t); err != nil || t.Type != "ticker" {
		return "", decimal.Zero, false
	}
	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return "", decimal.Zero, false
	}
	return t.ProductID, price, true
}

type request struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channels   []string `json:"channels"`
}

type tickerMessage struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
}
