package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// FundMeRepository is the abstraction for any kind of database intended to
// persist FundMe ledgers.
type FundMeRepository interface {
	// AddFundMe adds a new ledger to the repository.
	AddFundMe(ctx context.Context, fundMe *FundMe) error
	// GetFundMe returns the ledger deployed at the given address.
	GetFundMe(ctx context.Context, address common.Address) (*FundMe, error)
	// UpdateFundMe updates the state of a ledger. The closure function let's
	// commit multiple changes to a certain ledger in a transactional way.
	UpdateFundMe(
		ctx context.Context,
		address common.Address, updateFn func(f *FundMe) (*FundMe, error),
	) error
}
