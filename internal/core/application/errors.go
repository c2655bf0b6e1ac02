package application

import (
	"errors"
	"fmt"
)

var (
	// ErrContractNotFound is returned when calling a contract method on an
	// address with no contract.
	ErrContractNotFound = errors.New("no contract deployed at the given address")
	// ErrUnknownMethod is returned for calls to methods that a contract
	// doesn't expose. Transactions fall back to fund unless strict fallback is
	// enabled.
	ErrUnknownMethod = errors.New("unknown contract method")
	// ErrNonPayable ...
	ErrNonPayable = errors.New("method is not payable")
	// ErrInvalidArgs ...
	ErrInvalidArgs = errors.New("invalid method arguments")
	// ErrNotDevelopmentChain is returned by operations that are allowed only
	// on development networks.
	ErrNotDevelopmentChain = errors.New("operation allowed only on development chains")
	// ErrMissingPriceFeed is returned when no price feed is known for a
	// non-development network, or when a FundMe points to an address with no
	// price feed.
	ErrMissingPriceFeed = errors.New("price feed not found")
	// ErrGasLimitExceeded ...
	ErrGasLimitExceeded = errors.New("gas limit exceeds block gas limit")
	// ErrFundMeNotDeployed ...
	ErrFundMeNotDeployed = errors.New("FundMe is not deployed yet, run deploy first")
	// ErrUnknownDeployTag ...
	ErrUnknownDeployTag = errors.New("unknown deploy tag")
	// ErrUnknownContract is returned when deploying a contract kind the node
	// doesn't know.
	ErrUnknownContract = errors.New("unknown contract kind")
	// ErrInvalidSender is returned when the sender of a transaction is a
	// contract.
	ErrInvalidSender = errors.New("sender must be an externally owned account")
)

// RevertError is returned when a transaction is reverted. Nothing is mined and
// the chain state is left untouched.
type RevertError struct {
	Method string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("transaction reverted: %s", e.Err)
	}
	return fmt.Sprintf("transaction reverted in %s: %s", e.Method, e.Err)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// Reason returns the revert reason.
func (e *RevertError) Reason() string {
	return e.Err.Error()
}
