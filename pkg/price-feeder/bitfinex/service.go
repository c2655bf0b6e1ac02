package bitfinexfeeder

import (
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

// BaseURL is the url of the bitfinex public websocket API.
const BaseURL = "wss://api-pub.bitfinex.com/ws/2"

// position of LAST_PRICE in a ticker update
const lastPriceIndex = 6

// exchange tracks the channel ids bitfinex assigns to ticker subscriptions,
// since updates and unsubscriptions refer to them instead of the ticker.
type exchange struct {
	lock            sync.RWMutex
	tickersByChanID map[int64]string
}

func NewService() (pricefeeder.PriceFeeder, error) {
	return NewServiceWithURL(BaseURL)
}

// NewServiceWithURL returns a feeder connected to the given websocket url.
func NewServiceWithURL(url string) (pricefeeder.PriceFeeder, error) {
	return pricefeeder.NewWebSocketFeeder(url, newExchange())
}

func newExchange() *exchange {
	return &exchange{tickersByChanID: make(map[int64]string)}
}

func (*exchange) Name() string {
	return "bitfinex"
}

func (*exchange) Markets() []pricefeeder.Market {
	return []pricefeeder.Market{pricefeeder.EthUsdMarket("ETHUSD")}
}

func (*exchange) SubscribeMessages(tickers []string) []interface{} {
	msgs := make([]interface{}, 0, len(tickers))
	for _, ticker := range tickers {
		msgs = append(msgs, map[string]string{
			"event":   "subscribe",
			"channel": "ticker",
			"symbol":  "t" + ticker,
		})
	}
	return msgs
}

func (e *exchange) UnsubscribeMessages(tickers []string) []interface{} {
	e.lock.Lock()
	defer e.lock.Unlock()

	msgs := make([]interface{}, 0, len(tickers))
	for id, ticker := range e.tickersByChanID {
		for _, t := range tickers {
			if t != ticker {
				continue
			}
			msgs = append(msgs, map[string]interface{}{
				"event":  "unsubscribe",
				"chanId": id,
			})
			delete(e.tickersByChanID, id)
		}
	}
	return msgs
}

// ParsePrice records the channel ids of subscription events and reads the
// last price of ticker updates like:
// [chanId, [BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE,
// DAILY_CHANGE_RELATIVE, LAST_PRICE, VOLUME, HIGH, LOW]]
func (e *exchange) ParsePrice(msg []byte) (string, decimal.Decimal, bool) {
	var event subscriptionEvent
	if err := json.Unmarshal(msg, &event); err == nil {
		e.handleEvent(event)
		return "", decimal.Zero, false
	}

	var update []json.RawMessage
	if err := json.Unmarshal(msg, &update); err != nil || len(update) != 2 {
		return "", decimal.Zero, false
	}
	var chanID int64
	if err := json.Unmarshal(update[0], &chanID); err != nil {
		return "", decimal.Zero, false
	}
	// heartbeats carry "hb" in place of the values
	var values []decimal.Decimal
	if err := json.Unmarshal(update[1], &values); err != nil ||
		len(values) <= lastPriceIndex {
		return "", decimal.Zero, false
	}

	e.lock.RLock()
	ticker, ok := e.tickersByChanID[chanID]
	e.lock.RUnlock()
	if !ok {
		return "", decimal.Zero, false
	}
	return ticker, values[lastPriceIndex], true
}

func (e *exchange) handleEvent(event subscriptionEvent) {
	switch event.Event {
	case "error":
		log.Warnf("bitfinex: subscription error for %s: %s", event.Pair, event.Msg)
	case "subscribed":
		if event.Channel != "ticker" || event.Pair == "" {
			return
		}
		e.lock.Lock()
		e.tickersByChanID[event.ChanID] = event.Pair
		e.lock.Unlock()
	}
}

type subscriptionEvent struct {
	Event   string `json:"event"`
	Channel string `json:"channel"`
	ChanID  int64  `json:"chanId"`
	Pair    string `json:"pair"`
	Msg     string `json:"msg"`
}
