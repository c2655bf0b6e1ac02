package priceupdater

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

// Service mirrors the ETH/USD price of an external source into the mock
// aggregator of a development chain.
// Prices are fed into service from external price provider eg. Kraken.
type Service struct {
	// source is the external price provider.
	source ports.PriceSource
	prices application.PriceService
	// interval is the minimum time between two updates of the mock.
	interval time.Duration

	lock       sync.Mutex
	lastPrice  decimal.Decimal
	lastUpdate time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(
	source ports.PriceSource, prices application.PriceService,
	interval time.Duration,
) *Service {
	return &Service{
		source:   source,
		prices:   prices,
		interval: interval,
	}
}

// Start starts the price source and a goroutine that reads from its channel
// and updates the answer of the mock aggregator.
func (s *Service) Start(ctx context.Context) error {
	price, err := s.prices.LatestPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get mock price feed: %w", err)
	}
	decimals := int32(price.Decimals)

	ctx, cancel := context.WithCancel(ctx)
	ticks, err := s.source.Start(ctx)
	if err != nil {
		cancel()
		return err
	}
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Debugf("reading %s price feed chan started", s.source.Name())

		for tick := range ticks {
			if !s.shouldUpdate(tick) {
				continue
			}

			answer := ethunit.FromDecimal(tick.Price, decimals)
			if _, err := s.prices.UpdateMockPrice(
				ctx, common.Address{}, answer,
			); err != nil {
				log.WithError(err).Warnf(
					"cannot update mock price to %s", tick.Price,
				)
				continue
			}
			log.Debugf("mock price updated to %s from %s", tick.Price, tick.Source)
		}

		log.Debugf("reading %s price feed chan stopped", s.source.Name())
	}()

	return nil
}

// Stop stops the price source and waits for the pending update, if any.
func (s *Service) Stop() {
	s.source.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Service) shouldUpdate(tick ports.PriceTick) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if tick.Price.Sign() <= 0 || tick.Price.Equal(s.lastPrice) {
		return false
	}
	now := time.Now()
	if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) < s.interval {
		return false
	}

	s.lastPrice = tick.Price
	s.lastUpdate = now
	return true
}
