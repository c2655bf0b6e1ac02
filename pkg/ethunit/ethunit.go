// Package ethunit converts amounts between wei and their human readable
// representation in ether, or any other number of decimals.
package ethunit

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of one ether expressed in wei.
const EtherDecimals = 18

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooManyDecimals is returned when parsing an amount with more
	// fractional digits than the unit allows.
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseUnits parses a decimal string into an integer amount with the given
// number of decimals. "1.5" with 18 decimals is 1500000000000000000.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	if d.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if -d.Exponent() > decimals {
		return nil, ErrTooManyDecimals
	}
	return d.Shift(decimals).BigInt(), nil
}

// ParseEther parses an ether amount into wei.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// ToDecimal returns the given integer amount as a decimal with the given
// number of decimals.
func ToDecimal(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

// ToEther returns the given wei amount in ether.
func ToEther(wei *big.Int) decimal.Decimal {
	return ToDecimal(wei, EtherDecimals)
}

// FormatUnits formats an integer amount with the given number of decimals,
// trailing zeros are trimmed.
func FormatUnits(amount *big.Int, decimals int32) string {
	return ToDecimal(amount, decimals).String()
}

// FormatEther formats a wei amount in ether.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// ToFloat64 returns the approximated ether value of a wei amount.
func ToFloat64(wei *big.Int) float64 {
	f, _ := ToEther(wei).Float64()
	return f
}

// FromDecimal converts a decimal amount to an integer amount with the given
// number of decimals, truncating the exceeding fractional digits.
func FromDecimal(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}
