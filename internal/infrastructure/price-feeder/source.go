package pricefeederinfra

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	pricefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder"
	bitfinexfeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder/bitfinex"
	coinbasefeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder/coinbase"
	krakenfeeder "github.com/fundme-network/fundme-daemon/pkg/price-feeder/kraken"
)

const (
	SourceKraken   = "kraken"
	SourceCoinbase = "coinbase"
	SourceBitfinex = "bitfinex"
)

type feederFactory func(url string) (pricefeeder.PriceFeeder, error)

var sources = map[string]feederFactory{
	SourceKraken: func(url string) (pricefeeder.PriceFeeder, error) {
		if url == "" {
			return krakenfeeder.NewService()
		}
		return krakenfeeder.NewServiceWithURL(url)
	},
	SourceCoinbase: func(url string) (pricefeeder.PriceFeeder, error) {
		if url == "" {
			return coinbasefeeder.NewService()
		}
		return coinbasefeeder.NewServiceWithURL(url)
	},
	SourceBitfinex: func(url string) (pricefeeder.PriceFeeder, error) {
		if url == "" {
			return bitfinexfeeder.NewService()
		}
		return bitfinexfeeder.NewServiceWithURL(url)
	},
}

// IsValidSource returns whether the given exchange is supported.
func IsValidSource(name string) bool {
	_, ok := sources[name]
	return ok
}

type priceSource struct {
	name   string
	feeder pricefeeder.PriceFeeder

	lock    sync.Mutex
	started bool
	tickCh  chan ports.PriceTick
}

// NewPriceSource connects to the websocket API of the given exchange. An
// empty url connects to the exchange's default endpoint.
func NewPriceSource(name, url string) (ports.PriceSource, error) {
	factory, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown price source %s", name)
	}
	feeder, err := factory(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", name, err)
	}
	return NewPriceSourceFromFeeder(name, feeder), nil
}

// NewPriceSourceFromFeeder wraps an already connected feeder.
func NewPriceSourceFromFeeder(
	name string, feeder pricefeeder.PriceFeeder,
) ports.PriceSource {
	return &priceSource{name: name, feeder: feeder}
}

func (s *priceSource) Name() string {
	return s.name
}

// Start subscribes the ETH/USD market of the exchange and forwards its prices
// until ctx is done or the source is stopped.
func (s *priceSource) Start(ctx context.Context) (chan ports.PriceTick, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.started {
		return nil, fmt.Errorf("%s price source already started", s.name)
	}

	markets := s.feeder.WellKnownMarkets()
	if len(markets) <= 0 {
		return nil, fmt.Errorf("%s has no ETH/USD market", s.name)
	}
	if err := s.feeder.SubscribeMarkets(markets[:1]); err != nil {
		return nil, err
	}

	feedCh := s.feeder.Start()
	s.tickCh = make(chan ports.PriceTick)
	s.started = true

	go s.forward(ctx, feedCh, s.tickCh)
	return s.tickCh, nil
}

func (s *priceSource) Stop() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.started {
		return
	}
	s.feeder.Stop()
	s.started = false
}

func (s *priceSource) forward(
	ctx context.Context, feedCh chan pricefeeder.PriceFeed,
	tickCh chan ports.PriceTick,
) {
	defer close(tickCh)

	for {
		select {
		case <-ctx.Done():
			return
		case feed, ok := <-feedCh:
			if !ok {
				log.Debugf("%s price feed chan closed", s.name)
				return
			}
			tick := ports.PriceTick{
				Source: s.name,
				Price:  feed.Price,
				Time:   feed.Time.Unix(),
			}
			select {
			case tickCh <- tick:
			case <-ctx.Done():
				return
			}
		}
	}
}
