package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fundme-network/fundme-daemon/internal/core/application"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

// **** EventPublisher ****

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishFundedEvent(
	ctx context.Context, event application.FundedEvent,
) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) PublishWithdrawnEvent(
	ctx context.Context, event application.WithdrawnEvent,
) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// **** PriceFeed ****

type mockPriceFeed struct {
	mock.Mock
}

func (m *mockPriceFeed) Decimals(ctx context.Context) (uint8, error) {
	args := m.Called(ctx)

	var res uint8
	if a := args.Get(0); a != nil {
		res = a.(uint8)
	}
	return res, args.Error(1)
}

func (m *mockPriceFeed) LatestRoundData(
	ctx context.Context,
) (domain.RoundData, error) {
	args := m.Called(ctx)

	var res domain.RoundData
	if a := args.Get(0); a != nil {
		res = a.(domain.RoundData)
	}
	return res, args.Error(1)
}
