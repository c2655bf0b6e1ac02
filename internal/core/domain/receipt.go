package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	ReceiptStatusFailed     = 0
	ReceiptStatusSuccessful = 1
)

// Log is an event emitted during the execution of a transaction.
type Log struct {
	Address common.Address
	Event   string
	Data    map[string]string
}

// Receipt holds info about a mined transaction.
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	From            common.Address
	To              common.Address
	ContractAddress common.Address
	Nonce           uint64
	Value           *big.Int
	Method          string
	Data            []byte
	GasLimit        uint64
	GasUsed         uint64
	GasPrice        *big.Int
	Status          uint64
	Logs            []Log
	Timestamp       int64
}

// Fee returns the amount of wei paid by the sender for the gas.
func (r Receipt) Fee() *big.Int {
	fee := new(big.Int).SetUint64(r.GasUsed)
	return fee.Mul(fee, copyInt(r.GasPrice))
}

func (r Receipt) IsContractCreation() bool {
	return !isZeroAddress(r.ContractAddress)
}
