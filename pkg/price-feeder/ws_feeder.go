package pricefeeder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	// MaxReconnectionAttempts is the number of dials tried after the server
	// drops the connection.
	MaxReconnectionAttempts = 3
	// ReconnectionInterval is the pause between two dial attempts.
	ReconnectionInterval = 500 * time.Millisecond

	// expectedCloseCodes are the close frames that end the feed without a
	// reconnection.
	expectedCloseCodes = []int{
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseProtocolError,
		websocket.CloseUnsupportedData,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
		websocket.CloseInvalidFramePayloadData,
		websocket.ClosePolicyViolation,
		websocket.CloseMessageTooBig,
		websocket.CloseMandatoryExtension,
		websocket.CloseInternalServerErr,
		websocket.CloseServiceRestart,
		websocket.CloseTryAgainLater,
		websocket.CloseTLSHandshake,
	}

	errReadPanic = errors.New("websocket read panicked")
)

type wsFeeder struct {
	exchange Exchange
	url      string

	connLock sync.RWMutex
	conn     *websocket.Conn
	// gorilla connections support one concurrent writer
	writeLock sync.Mutex

	marketLock sync.RWMutex
	markets    map[string]Market
	lastPrices map[string]decimal.Decimal

	feedCh   chan PriceFeed
	quitCh   chan struct{}
	stopOnce sync.Once
}

// NewWebSocketFeeder dials url and returns a feeder speaking the protocol of
// the given exchange.
func NewWebSocketFeeder(url string, exchange Exchange) (PriceFeeder, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", exchange.Name(), err)
	}

	return &wsFeeder{
		exchange:   exchange,
		url:        url,
		conn:       conn,
		markets:    make(map[string]Market),
		lastPrices: make(map[string]decimal.Decimal),
		feedCh:     make(chan PriceFeed, 20),
		quitCh:     make(chan struct{}),
	}, nil
}

func (f *wsFeeder) WellKnownMarkets() []Market {
	return f.exchange.Markets()
}

func (f *wsFeeder) SubscribeMarkets(markets []Market) error {
	f.marketLock.Lock()
	defer f.marketLock.Unlock()

	tickers := make([]string, 0, len(markets))
	for _, mkt := range markets {
		if _, ok := f.markets[mkt.Ticker]; !ok {
			tickers = append(tickers, mkt.Ticker)
		}
	}
	if len(tickers) <= 0 {
		return nil
	}

	if err := f.send(f.exchange.SubscribeMessages(tickers)); err != nil {
		return fmt.Errorf("%s: cannot subscribe markets: %w", f.exchange.Name(), err)
	}
	for _, mkt := range markets {
		f.markets[mkt.Ticker] = mkt
	}
	return nil
}

func (f *wsFeeder) UnsubscribeMarkets(markets []Market) error {
	f.marketLock.Lock()
	defer f.marketLock.Unlock()

	tickers := make([]string, 0, len(markets))
	for _, mkt := range markets {
		if _, ok := f.markets[mkt.Ticker]; ok {
			tickers = append(tickers, mkt.Ticker)
		}
	}
	if len(tickers) <= 0 {
		return nil
	}

	if err := f.send(f.exchange.UnsubscribeMessages(tickers)); err != nil {
		return fmt.Errorf("%s: cannot unsubscribe markets: %w", f.exchange.Name(), err)
	}
	for _, ticker := range tickers {
		delete(f.markets, ticker)
		delete(f.lastPrices, ticker)
	}
	return nil
}

func (f *wsFeeder) ListSubscriptions() []Market {
	f.marketLock.RLock()
	defer f.marketLock.RUnlock()

	markets := make([]Market, 0, len(f.markets))
	for _, mkt := range f.markets {
		markets = append(markets, mkt)
	}
	return markets
}

func (f *wsFeeder) Start() chan PriceFeed {
	go f.listen()
	return f.feedCh
}

func (f *wsFeeder) Stop() {
	f.stopOnce.Do(func() {
		close(f.quitCh)
		//nolint
		f.getConn().Close()
	})
}

func (f *wsFeeder) listen() {
	defer close(f.feedCh)

	name := f.exchange.Name()
	for {
		msg, err := f.read()
		if err != nil {
			if f.isStopped() {
				return
			}
			if !errors.Is(err, errReadPanic) &&
				!websocket.IsUnexpectedCloseError(err, expectedCloseCodes...) {
				log.WithError(err).Warnf("%s: stopped reading from server", name)
				return
			}

			log.WithError(err).Debugf("%s: connection dropped, reconnecting", name)
			if err := f.reconnect(); err != nil {
				log.WithError(err).Errorf("%s: failed to reconnect to server", name)
				return
			}
			log.Debugf("%s: connection with server restored", name)
			continue
		}

		feed, ok := f.toFeed(msg)
		if !ok {
			continue
		}
		select {
		case f.feedCh <- feed:
		case <-f.quitCh:
			return
		}
	}
}

// read returns the next message of the connection. Some servers make the
// underlying read panic instead of failing with a close error when they drop
// the connection: such panics are returned as errReadPanic.
func (f *wsFeeder) read() (msg []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", errReadPanic, rec)
		}
	}()

	_, msg, err = f.getConn().ReadMessage()
	return
}

// toFeed turns a ticker message into a feed if the market is subscribed and
// its price changed since the last one.
func (f *wsFeeder) toFeed(msg []byte) (PriceFeed, bool) {
	ticker, price, ok := f.exchange.ParsePrice(msg)
	if !ok || !price.IsPositive() {
		return PriceFeed{}, false
	}

	f.marketLock.Lock()
	defer f.marketLock.Unlock()

	mkt, ok := f.markets[ticker]
	if !ok {
		return PriceFeed{}, false
	}
	if last, ok := f.lastPrices[ticker]; ok && last.Equal(price) {
		return PriceFeed{}, false
	}
	f.lastPrices[ticker] = price

	return PriceFeed{Market: mkt, Price: price, Time: time.Now()}, true
}

func (f *wsFeeder) reconnect() error {
	var (
		conn *websocket.Conn
		err  error
	)
	for attempt := 1; attempt <= MaxReconnectionAttempts; attempt++ {
		if conn, err = dial(f.url); err == nil {
			break
		}
		log.WithError(err).Debugf(
			"%s: reconnection attempt %d failed", f.exchange.Name(), attempt,
		)
		select {
		case <-time.After(ReconnectionInterval):
		case <-f.quitCh:
			return fmt.Errorf("feeder stopped")
		}
	}
	if err != nil {
		return err
	}

	f.connLock.Lock()
	f.conn = conn
	f.connLock.Unlock()

	// Stop may have closed the old connection while dialing.
	if f.isStopped() {
		//nolint
		conn.Close()
		return fmt.Errorf("feeder stopped")
	}

	tickers := f.subscribedTickers()
	if len(tickers) <= 0 {
		return nil
	}
	if err := f.send(f.exchange.SubscribeMessages(tickers)); err != nil {
		log.WithError(err).Errorf(
			"%s: failed to restore subscriptions after reconnection",
			f.exchange.Name(),
		)
	}
	return nil
}

func (f *wsFeeder) send(msgs []interface{}) error {
	f.writeLock.Lock()
	defer f.writeLock.Unlock()

	conn := f.getConn()
	for _, msg := range msgs {
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *wsFeeder) subscribedTickers() []string {
	f.marketLock.RLock()
	defer f.marketLock.RUnlock()

	tickers := make([]string, 0, len(f.markets))
	for ticker := range f.markets {
		tickers = append(tickers, ticker)
	}
	return tickers
}

func (f *wsFeeder) getConn() *websocket.Conn {
	f.connLock.RLock()
	defer f.connLock.RUnlock()
	return f.conn
}

func (f *wsFeeder) isStopped() bool {
	select {
	case <-f.quitCh:
		return true
	default:
		return false
	}
}

func dial(url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}
