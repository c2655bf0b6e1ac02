package pricefeeder_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

var market = pricefeeder.EthUsdMarket("ETH-USD")

// testExchange speaks a minimal protocol: {"op":"sub","tickers":[...]} and
// price updates like {"ticker":"ETH-USD","price":"1850.12"}.
type testExchange struct{}

func (testExchange) Name() string { return "test" }

func (testExchange) Markets() []pricefeeder.Market {
	return []pricefeeder.Market{market}
}

func (testExchange) SubscribeMessages(tickers []string) []interface{} {
	return []interface{}{map[string]interface{}{"op": "sub", "tickers": tickers}}
}

func (testExchange) UnsubscribeMessages(tickers []string) []interface{} {
	return []interface{}{map[string]interface{}{"op": "unsub", "tickers": tickers}}
}

func (testExchange) ParsePrice(msg []byte) (string, decimal.Decimal, bool) {
	var m struct {
		Ticker string          `json:"ticker"`
		Price  decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(msg, &m); err != nil || m.Ticker == "" {
		return "", decimal.Zero, false
	}
	return m.Ticker, m.Price, true
}

// testServer replies to every subscription of the i-th connection with the
// i-th batch of messages, then optionally drops the connection with an
// unexpected close code.
type testServer struct {
	*httptest.Server

	lock    sync.Mutex
	conns   int
	subs    []string
	batches [][]string
	drop    map[int]bool
}

func newTestServer(t *testing.T, batches [][]string, drop map[int]bool) *testServer {
	upgrader := websocket.Upgrader{}
	srv := &testServer{batches: batches, drop: drop}
	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()

			srv.lock.Lock()
			i := srv.conns
			srv.conns++
			srv.lock.Unlock()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				srv.lock.Lock()
				srv.subs = append(srv.subs, string(msg))
				srv.lock.Unlock()
				if !strings.Contains(string(msg), `"sub"`) || i >= len(batches) {
					continue
				}

				for _, m := range batches[i] {
					if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
						return
					}
				}
				if drop[i] {
					//nolint
					conn.WriteMessage(
						websocket.CloseMessage,
						websocket.FormatCloseMessage(4000, "bye"),
					)
					return
				}
			}
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func (s *testServer) requests() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string{}, s.subs...)
}

func (s *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func nextFeed(t *testing.T, feedCh chan pricefeeder.PriceFeed) pricefeeder.PriceFeed {
	select {
	case feed, ok := <-feedCh:
		require.True(t, ok, "feed channel closed")
		return feed
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for price feed")
	}
	return pricefeeder.PriceFeed{}
}

func TestWebSocketFeeder(t *testing.T) {
	server := newTestServer(t, [][]string{{
		`{"type":"subscriptions"}`,
		`{"ticker":"BTC-USD","price":"30000"}`,
		`{"ticker":"ETH-USD","price":"1850.12"}`,
		`{"ticker":"ETH-USD","price":"1850.12"}`,
		`{"ticker":"ETH-USD","price":"0"}`,
		`{"ticker":"ETH-USD","price":"1900"}`,
	}}, nil)

	feeder, err := pricefeeder.NewWebSocketFeeder(server.wsURL(), testExchange{})
	require.NoError(t, err)
	require.Equal(t, []pricefeeder.Market{market}, feeder.WellKnownMarkets())

	feedCh := feeder.Start()
	require.NoError(t, feeder.SubscribeMarkets(feeder.WellKnownMarkets()))
	require.NoError(t, feeder.SubscribeMarkets(feeder.WellKnownMarkets()))
	require.Len(t, feeder.ListSubscriptions(), 1)

	// Unknown markets, repeated and non positive prices are skipped.
	feed := nextFeed(t, feedCh)
	require.Equal(t, market, feed.Market)
	require.True(t, decimal.RequireFromString("1850.12").Equal(feed.Price))
	feed = nextFeed(t, feedCh)
	require.True(t, decimal.RequireFromString("1900").Equal(feed.Price))

	require.NoError(t, feeder.UnsubscribeMarkets([]pricefeeder.Market{market}))
	require.Empty(t, feeder.ListSubscriptions())
	require.Eventually(t, func() bool {
		return len(server.requests()) == 2
	}, 5*time.Second, 50*time.Millisecond)
	require.Contains(t, server.requests()[1], `"unsub"`)

	feeder.Stop()
	feeder.Stop()
	select {
	case _, ok := <-feedCh:
		require.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("feed channel not closed after stop")
	}
}

func TestWebSocketFeederReconnects(t *testing.T) {
	server := newTestServer(t, [][]string{
		{`{"ticker":"ETH-USD","price":"1850"}`},
		{`{"ticker":"ETH-USD","price":"1860"}`},
	}, map[int]bool{0: true})

	feeder, err := pricefeeder.NewWebSocketFeeder(server.wsURL(), testExchange{})
	require.NoError(t, err)
	t.Cleanup(feeder.Stop)

	require.NoError(t, feeder.SubscribeMarkets([]pricefeeder.Market{market}))
	feedCh := feeder.Start()

	feed := nextFeed(t, feedCh)
	require.True(t, decimal.NewFromInt(1850).Equal(feed.Price))

	// Subscriptions are restored on the new connection.
	feed = nextFeed(t, feedCh)
	require.True(t, decimal.NewFromInt(1860).Equal(feed.Price))
	require.Len(t, server.requests(), 2)
}

func TestWebSocketFeederDialFailure(t *testing.T) {
	_, err := pricefeeder.NewWebSocketFeeder("ws://127.0.0.1:1", testExchange{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "test:")
}
