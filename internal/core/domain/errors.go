package domain

import "errors"

var (
	// ErrInsufficientContribution is returned when the USD value of a funding
	// is below MinimumUSD.
	ErrInsufficientContribution = errors.New("You need to spend more ETH!")
	// ErrNotOwner is returned when someone else than the owner tries to
	// withdraw.
	ErrNotOwner = errors.New("FundMe__NotOwner")
	// ErrFunderIndexOutOfRange is returned when reading a funder at an index
	// greater or equal than the number of funders.
	ErrFunderIndexOutOfRange = errors.New("funder index out of range")
	// ErrTransferFailed is returned when the recipient of a payout refuses it.
	ErrTransferFailed = errors.New("Call failed")
	// ErrOutOfGas is returned when a transaction consumes more than its gas
	// limit.
	ErrOutOfGas = errors.New("out of gas")
	// ErrInsufficientFunds is returned when an account can't cover the value
	// and the fees of a transaction.
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price + value")
	// ErrNullAddress ...
	ErrNullAddress = errors.New("address must not be the zero address")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must not be negative")
	// ErrInvalidDecimals ...
	ErrInvalidDecimals = errors.New("decimals must be in range [0, 36]")
	// ErrRoundNotFound is returned when asking an aggregator for a round it
	// never recorded.
	ErrRoundNotFound = errors.New("No data present")
	// ErrFundMeNotFound ...
	ErrFundMeNotFound = errors.New("fundme contract not found")
	// ErrAggregatorNotFound ...
	ErrAggregatorNotFound = errors.New("aggregator contract not found")
	// ErrReceiptNotFound ...
	ErrReceiptNotFound = errors.New("transaction receipt not found")
	// ErrDeploymentNotFound ...
	ErrDeploymentNotFound = errors.New("deployment not found")
	// ErrUnknownNetwork is returned when a network has no known configuration.
	ErrUnknownNetwork = errors.New("unknown network")
)
