package domain

import "math/big"

const ethDecimals = 18

var (
	oneEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(ethDecimals), nil)

	// MinimumUSD is the minimum value of a funding, in USD with 18 decimals.
	MinimumUSD = new(big.Int).Mul(big.NewInt(50), oneEther)
)

// GetPrice normalizes a price feed answer expressed with the given decimals to
// 18 decimals.
func GetPrice(answer *big.Int, decimals uint8) *big.Int {
	if answer == nil {
		return big.NewInt(0)
	}
	price := new(big.Int).Set(answer)
	if decimals == ethDecimals {
		return price
	}
	if decimals < ethDecimals {
		scale := pow10(ethDecimals - int(decimals))
		return price.Mul(price, scale)
	}
	scale := pow10(int(decimals) - ethDecimals)
	return price.Quo(price, scale)
}

// GetConversionRate returns the USD value, with 18 decimals, of the given wei
// amount.
func GetConversionRate(ethAmount, answer *big.Int, decimals uint8) *big.Int {
	if ethAmount == nil {
		return big.NewInt(0)
	}
	ethPrice := GetPrice(answer, decimals)
	usd := new(big.Int).Mul(ethPrice, ethAmount)
	return usd.Quo(usd, oneEther)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
