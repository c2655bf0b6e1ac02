package domain_test

import (
	"math/big"
	"testing"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestGetConversionRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ethAmount   *big.Int
		answer      *big.Int
		decimals    uint8
		expectedUSD *big.Int
	}{
		{
			name:        "one_eth_8_decimals",
			ethAmount:   oneEth,
			answer:      big.NewInt(200000000000),
			decimals:    8,
			expectedUSD: new(big.Int).Mul(big.NewInt(2000), oneEth),
		},
		{
			name:        "min_contribution",
			ethAmount:   ether(1, 40),
			answer:      big.NewInt(200000000000),
			decimals:    8,
			expectedUSD: domain.MinimumUSD,
		},
		{
			name:        "18_decimals",
			ethAmount:   ether(1, 2),
			answer:      new(big.Int).Mul(big.NewInt(3000), oneEth),
			decimals:    18,
			expectedUSD: new(big.Int).Mul(big.NewInt(1500), oneEth),
		},
		{
			name:        "20_decimals",
			ethAmount:   oneEth,
			answer:      new(big.Int).Mul(big.NewInt(100000), oneEth),
			decimals:    20,
			expectedUSD: new(big.Int).Mul(big.NewInt(1000), oneEth),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			usd := domain.GetConversionRate(tt.ethAmount, tt.answer, tt.decimals)
			require.Zero(t, tt.expectedUSD.Cmp(usd), "got %s", usd)
		})
	}
}
