package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	slotPriceFeed     = "s_priceFeed"
	slotFundersLength = "s_funders.length"
)

func funderSlot(i int) string {
	return fmt.Sprintf("s_funders[%d]", i)
}

func amountSlot(addr common.Address) string {
	return fmt.Sprintf("s_addressToAmountFunded[%s]", addr.Hex())
}

// FundMe is the crowdfunding ledger. Anyone can fund it with at least
// MinimumUSD worth of ether, only the owner can withdraw the whole balance.
//
// The ether held by the contract is the balance of the Account at Address, the
// sum of AddressToAmountFunded is expected to always match it.
type FundMe struct {
	Address   common.Address
	Owner     common.Address
	PriceFeed common.Address
	// Amount funded by every funder since the last withdrawal.
	AddressToAmountFunded map[common.Address]*big.Int
	// Funders in order of first funding.
	Funders []common.Address
}

// NewFundMe returns a new ledger owned by the given address and relying on
// the price feed at the given address.
func NewFundMe(address, owner, priceFeed common.Address) (*FundMe, error) {
	if isZeroAddress(address) || isZeroAddress(owner) || isZeroAddress(priceFeed) {
		return nil, ErrNullAddress
	}
	return &FundMe{
		Address:               address,
		Owner:                 owner,
		PriceFeed:             priceFeed,
		AddressToAmountFunded: make(map[common.Address]*big.Int),
		Funders:               make([]common.Address, 0),
	}, nil
}

// Fund records a contribution of value wei made by funder. answer and
// decimals are the latest ETH/USD price read from the price feed.
// The state is left untouched if an error is returned.
func (f *FundMe) Fund(
	funder common.Address, value, answer *big.Int, decimals uint8,
	gas *GasMeter,
) error {
	if err := gas.SLoad(slotPriceFeed); err != nil {
		return err
	}
	if value == nil || value.Sign() <= 0 {
		return ErrInsufficientContribution
	}
	if GetConversionRate(value, answer, decimals).Cmp(MinimumUSD) < 0 {
		return ErrInsufficientContribution
	}

	current := f.GetAddressToAmountFunded(funder)
	isNewFunder := current.Sign() == 0

	if err := gas.SLoad(amountSlot(funder)); err != nil {
		return err
	}
	if isNewFunder {
		index := len(f.Funders)
		if err := gas.SLoad(slotFundersLength); err != nil {
			return err
		}
		if err := gas.SStore(slotFundersLength, index == 0, false); err != nil {
			return err
		}
		if err := gas.SStore(funderSlot(index), true, false); err != nil {
			return err
		}
	}
	if err := gas.SStore(amountSlot(funder), isNewFunder, false); err != nil {
		return err
	}

	if f.AddressToAmountFunded == nil {
		f.AddressToAmountFunded = make(map[common.Address]*big.Int)
	}
	if isNewFunder {
		f.Funders = append(f.Funders, funder)
	}
	f.AddressToAmountFunded[funder] = new(big.Int).Add(current, value)
	return nil
}

// Withdraw resets the ledger if caller is the owner. Moving the ether to the
// owner is up to the caller of this method, and must be undone together with
// the reset if it fails.
func (f *FundMe) Withdraw(caller common.Address, gas *GasMeter) error {
	if err := f.onlyOwner(caller); err != nil {
		return err
	}

	// The length of the funders array is read from storage at every
	// iteration.
	for i := 0; ; i++ {
		if err := gas.SLoad(slotFundersLength); err != nil {
			return err
		}
		if i >= len(f.Funders) {
			break
		}
		if err := gas.SLoad(funderSlot(i)); err != nil {
			return err
		}
		if err := gas.SStore(amountSlot(f.Funders[i]), false, true); err != nil {
			return err
		}
	}
	if err := f.chargeFundersReset(gas); err != nil {
		return err
	}

	f.reset()
	return nil
}

// CheaperWithdraw behaves like Withdraw but copies the funders to memory
// once, instead of reading them from storage at every iteration.
func (f *FundMe) CheaperWithdraw(caller common.Address, gas *GasMeter) error {
	if err := f.onlyOwner(caller); err != nil {
		return err
	}

	if err := gas.SLoad(slotFundersLength); err != nil {
		return err
	}
	funders := make([]common.Address, len(f.Funders))
	for i := range f.Funders {
		if err := gas.SLoad(funderSlot(i)); err != nil {
			return err
		}
		funders[i] = f.Funders[i]
	}

	for i := 0; ; i++ {
		if err := gas.MLoad(); err != nil {
			return err
		}
		if i >= len(funders) {
			break
		}
		if err := gas.SStore(amountSlot(funders[i]), false, true); err != nil {
			return err
		}
	}
	if err := f.chargeFundersReset(gas); err != nil {
		return err
	}

	f.reset()
	return nil
}

// GetAddressToAmountFunded returns the amount funded by the given address
// since the last withdrawal.
func (f *FundMe) GetAddressToAmountFunded(funder common.Address) *big.Int {
	amount, ok := f.AddressToAmountFunded[funder]
	if !ok || amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(amount)
}

// GetFunder returns the funder at the given index.
func (f *FundMe) GetFunder(index int) (common.Address, error) {
	if index < 0 || index >= len(f.Funders) {
		return common.Address{}, ErrFunderIndexOutOfRange
	}
	return f.Funders[index], nil
}

// GetFunders returns a copy of the funders list.
func (f *FundMe) GetFunders() []common.Address {
	funders := make([]common.Address, len(f.Funders))
	copy(funders, f.Funders)
	return funders
}

// TotalFunded returns the sum of all recorded contributions.
func (f *FundMe) TotalFunded() *big.Int {
	total := big.NewInt(0)
	for _, amount := range f.AddressToAmountFunded {
		if amount != nil {
			total.Add(total, amount)
		}
	}
	return total
}

func (f *FundMe) onlyOwner(caller common.Address) error {
	if caller != f.Owner {
		return ErrNotOwner
	}
	return nil
}

func (f *FundMe) chargeFundersReset(gas *GasMeter) error {
	for i := range f.Funders {
		if err := gas.SStore(funderSlot(i), false, true); err != nil {
			return err
		}
	}
	return gas.SStore(slotFundersLength, len(f.Funders) == 0, true)
}

func (f *FundMe) reset() {
	for _, funder := range f.Funders {
		delete(f.AddressToAmountFunded, funder)
	}
	f.Funders = make([]common.Address, 0)
}

func isZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}
