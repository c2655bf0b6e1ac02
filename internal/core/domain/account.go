package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContractKind tells which contract, if any, is deployed at an address.
type ContractKind string

const (
	ContractNone             ContractKind = ""
	ContractFundMe           ContractKind = "FundMe"
	ContractMockV3Aggregator ContractKind = "MockV3Aggregator"
)

// Account is the state of an address on chain.
type Account struct {
	Address  common.Address
	Balance  *big.Int
	Nonce    uint64
	Contract ContractKind
	// RejectsPayments makes every incoming ether transfer fail, like a
	// contract without receive function would do.
	RejectsPayments bool
}

// NewAccount returns an externally owned account with the given balance.
func NewAccount(address common.Address, balance *big.Int) *Account {
	return &Account{
		Address: address,
		Balance: copyInt(balance),
	}
}

// NewContractAccount returns the account of a freshly deployed contract.
func NewContractAccount(address common.Address, kind ContractKind) *Account {
	return &Account{
		Address:  address,
		Balance:  big.NewInt(0),
		Contract: kind,
	}
}

func (a *Account) IsContract() bool {
	return a.Contract != ContractNone
}

// GetBalance returns a copy of the account balance.
func (a *Account) GetBalance() *big.Int {
	return copyInt(a.Balance)
}

// Credit adds the given amount to the balance.
func (a *Account) Credit(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	a.Balance = new(big.Int).Add(a.GetBalance(), amount)
	return nil
}

// Receive credits an ether transfer coming from another account. It fails if
// the account refuses payments.
func (a *Account) Receive(amount *big.Int) error {
	if a.RejectsPayments && amount != nil && amount.Sign() > 0 {
		return ErrTransferFailed
	}
	return a.Credit(amount)
}

// Debit subtracts the given amount from the balance.
func (a *Account) Debit(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	balance := a.GetBalance()
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	a.Balance = balance.Sub(balance, amount)
	return nil
}

// IncrementNonce ...
func (a *Account) IncrementNonce() {
	a.Nonce++
}
