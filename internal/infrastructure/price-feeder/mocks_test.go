package pricefeederinfra_test

import (
	"sync"

	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
)

type mockFeeder struct {
	lock    sync.Mutex
	markets []pricefeeder.Market
	feedCh  chan pricefeeder.PriceFeed
	once    sync.Once
}

func newMockFeeder() *mockFeeder {
	return &mockFeeder{feedCh: make(chan pricefeeder.PriceFeed)}
}

func (m *mockFeeder) WellKnownMarkets() []pricefeeder.Market {
	return []pricefeeder.Market{pricefeeder.EthUsdMarket("ETH-USD")}
}

func (m *mockFeeder) SubscribeMarkets(markets []pricefeeder.Market) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.markets = append(m.markets, markets...)
	return nil
}

func (m *mockFeeder) UnsubscribeMarkets([]pricefeeder.Market) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.markets = nil
	return nil
}

func (m *mockFeeder) ListSubscriptions() []pricefeeder.Market {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.markets
}

func (m *mockFeeder) Start() chan pricefeeder.PriceFeed {
	return m.feedCh
}

func (m *mockFeeder) Stop() {
	m.once.Do(func() { close(m.feedCh) })
}
