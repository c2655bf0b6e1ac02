package pricefeederinfra

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
	"github.com/fundme-network/fundme-daemon/pkg/ethunit"
)

// LiveFeedDecimals are the decimals of the answers of Chainlink's ETH/USD
// feeds.
const LiveFeedDecimals = 8

// ErrNoPriceYet is returned by a live feed that received no tick.
var ErrNoPriceYet = errors.New("live price feed has no price yet")

// LiveFeed is a price feed whose rounds are the ticks of an external source.
type LiveFeed struct {
	lock  sync.RWMutex
	round domain.RoundData
}

func NewLiveFeed() *LiveFeed {
	return &LiveFeed{}
}

// Update records the tick as a new round, unless the price is not positive.
func (f *LiveFeed) Update(tick ports.PriceTick) bool {
	if tick.Price.Sign() <= 0 {
		return false
	}
	ts := tick.Time
	if ts == 0 {
		ts = time.Now().Unix()
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	roundID := f.round.RoundID + 1
	f.round = domain.RoundData{
		RoundID:         roundID,
		Answer:          ethunit.FromDecimal(tick.Price, LiveFeedDecimals),
		StartedAt:       ts,
		UpdatedAt:       ts,
		AnsweredInRound: roundID,
	}
	return true
}

// Watch updates the feed with every tick of the source until the channel is
// closed or ctx is done.
func (f *LiveFeed) Watch(ctx context.Context, ticks <-chan ports.PriceTick) {
	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			f.Update(tick)
		}
	}
}

func (f *LiveFeed) Decimals(context.Context) (uint8, error) {
	return LiveFeedDecimals, nil
}

func (f *LiveFeed) LatestRoundData(context.Context) (domain.RoundData, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if f.round.RoundID == 0 {
		return domain.RoundData{}, ErrNoPriceYet
	}
	round := f.round
	round.Answer = new(big.Int).Set(f.round.Answer)
	return round, nil
}

var _ ports.PriceFeed = (*LiveFeed)(nil)
