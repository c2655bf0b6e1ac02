package db_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

var oneEth = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func makeRandomFundMe(t *testing.T) *domain.FundMe {
	fundMe, err := domain.NewFundMe(
		randomAddress(), randomAddress(), randomAddress(),
	)
	require.NoError(t, err)
	return fundMe
}

func makeRandomAggregator(t *testing.T) *domain.Aggregator {
	aggregator, err := domain.NewAggregator(
		randomAddress(), domain.DefaultMockDecimals,
		big.NewInt(domain.DefaultMockInitialPrice), randomTimestamp(),
	)
	require.NoError(t, err)
	return aggregator
}

func makeRandomReceipts(num int) []domain.Receipt {
	receipts := make([]domain.Receipt, 0, num)
	for i := 0; i < num; i++ {
		receipts = append(receipts, domain.Receipt{
			TxHash:      randomHash(),
			BlockNumber: uint64(i + 1),
			From:        randomAddress(),
			To:          randomAddress(),
			Value:       oneEth,
			Method:      "fund",
			GasUsed:     21000,
			GasPrice:    big.NewInt(1000000000),
			Status:      domain.ReceiptStatusSuccessful,
			Logs: []domain.Log{
				{Event: "Funded", Data: map[string]string{"amount": oneEth.String()}},
			},
			Timestamp: randomTimestamp(),
		})
	}
	return receipts
}

func randomAddress() common.Address {
	return common.BytesToAddress(randomBytes(common.AddressLength))
}

func randomHash() common.Hash {
	return common.BytesToHash(randomBytes(common.HashLength))
}

func randomTimestamp() int64 {
	return int64(randomIntInRange(1000000000, 1662688000))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64()) + min
}
