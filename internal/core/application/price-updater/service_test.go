package priceupdater_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	priceupdater "github.com/fundme-network/fundme-daemon/internal/core/application/price-updater"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/fundme-network/fundme-daemon/internal/core/ports"
)

type mockPriceService struct {
	mock.Mock
	updates chan *big.Int
}

func (m *mockPriceService) LatestPrice(
	ctx context.Context,
) (*application.PriceInfo, error) {
	args := m.Called(ctx)
	var res *application.PriceInfo
	if a := args.Get(0); a != nil {
		res = a.(*application.PriceInfo)
	}
	return res, args.Error(1)
}

func (m *mockPriceService) UpdateMockPrice(
	ctx context.Context, from common.Address, answer *big.Int,
) (*domain.Receipt, error) {
	m.updates <- answer
	return &domain.Receipt{}, nil
}

type mockSource struct {
	ticks chan ports.PriceTick
}

func (m *mockSource) Name() string {
	return "mock"
}

func (m *mockSource) Start(context.Context) (chan ports.PriceTick, error) {
	return m.ticks, nil
}

func (m *mockSource) Stop() {
	close(m.ticks)
}

func TestService(t *testing.T) {
	prices := &mockPriceService{updates: make(chan *big.Int, 10)}
	prices.On("LatestPrice", mock.Anything).Return(&application.PriceInfo{
		Decimals: 8,
		Answer:   big.NewInt(200000000000),
	}, nil)
	source := &mockSource{ticks: make(chan ports.PriceTick)}

	svc := priceupdater.NewService(source, prices, 0)
	require.NoError(t, svc.Start(context.Background()))

	source.ticks <- ports.PriceTick{Price: decimal.RequireFromString("1850.12")}
	// Same price and non positive prices are skipped.
	source.ticks <- ports.PriceTick{Price: decimal.RequireFromString("1850.12")}
	source.ticks <- ports.PriceTick{Price: decimal.Zero}
	source.ticks <- ports.PriceTick{Price: decimal.RequireFromString("1900")}
	svc.Stop()

	close(prices.updates)
	answers := make([]string, 0)
	for a := range prices.updates {
		answers = append(answers, a.String())
	}
	require.Equal(t, []string{"185012000000", "190000000000"}, answers)
}

func TestServiceInterval(t *testing.T) {
	prices := &mockPriceService{updates: make(chan *big.Int, 10)}
	prices.On("LatestPrice", mock.Anything).Return(&application.PriceInfo{
		Decimals: 8,
	}, nil)
	source := &mockSource{ticks: make(chan ports.PriceTick)}

	svc := priceupdater.NewService(source, prices, time.Hour)
	require.NoError(t, svc.Start(context.Background()))

	source.ticks <- ports.PriceTick{Price: decimal.RequireFromString("1850")}
	source.ticks <- ports.PriceTick{Price: decimal.RequireFromString("1900")}
	svc.Stop()

	close(prices.updates)
	require.Len(t, prices.updates, 1)
}

func TestServiceWithoutMocks(t *testing.T) {
	prices := &mockPriceService{}
	prices.On("LatestPrice", mock.Anything).Return(
		nil, errors.New("FundMe is not deployed"),
	)
	source := &mockSource{ticks: make(chan ports.PriceTick)}

	svc := priceupdater.NewService(source, prices, 0)
	require.Error(t, svc.Start(context.Background()))
}
