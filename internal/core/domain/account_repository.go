package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// AccountRepository is the abstraction for any kind of database intended to
// persist the accounts of the chain.
type AccountRepository interface {
	// AddAccounts adds the given accounts to the repository. Those already
	// existing won't be re-added.
	AddAccounts(ctx context.Context, accounts []*Account) (int, error)
	// GetAccount returns the account with the given address. An address
	// never seen before is returned as an empty externally owned account.
	GetAccount(ctx context.Context, address common.Address) (*Account, error)
	// GetAllAccounts returns all accounts.
	GetAllAccounts(ctx context.Context) ([]Account, error)
	// UpdateAccount updates the state of an account, creating it if it does
	// not exist yet.
	UpdateAccount(
		ctx context.Context,
		address common.Address, updateFn func(a *Account) (*Account, error),
	) error
}
