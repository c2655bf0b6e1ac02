package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var price = cli.Command{
	Name:  "price",
	Usage: "get the latest ETH/USD answer of the price feed",
	Action: func(ctx *cli.Context) error {
		return getAction("/price")
	},
}

var updateprice = cli.Command{
	Name:  "updateprice",
	Usage: "update the answer of the mock price feed, only on development chains",
	Flags: []cli.Flag{
		&fromFlag,
		&cli.StringFlag{
			Name:  "price",
			Usage: "the ETH/USD price, ie. 2000.5",
		},
		&cli.StringFlag{
			Name:  "answer",
			Usage: "the raw answer, scaled by the decimals of the feed",
		},
		&cli.UintFlag{
			Name:  "decimals",
			Usage: "the decimals used to scale --price",
			Value: 8,
		},
	},
	Action: updatePriceAction,
}

func updatePriceAction(ctx *cli.Context) error {
	answer, err := parseAnswer(
		ctx.String("price"), ctx.String("answer"), int32(ctx.Uint("decimals")),
	)
	if err != nil {
		return err
	}
	from, err := getFrom(ctx)
	if err != nil {
		return err
	}

	return run(func(c *client) ([]byte, error) {
		return c.post("/price", map[string]string{
			"from":   from,
			"answer": answer,
		})
	})
}

// parseAnswer returns the raw answer, either given or obtained by scaling the
// price by 10^decimals.
func parseAnswer(price, answer string, decimals int32) (string, error) {
	if (price == "") == (answer == "") {
		return "", fmt.Errorf("either --price or --answer must be given")
	}
	if answer != "" {
		return answer, nil
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return "", fmt.Errorf("invalid price: %w", err)
	}
	if !p.IsPositive() {
		return "", fmt.Errorf("price must be positive")
	}
	scaled := p.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return "", fmt.Errorf("price has more than %d decimals", decimals)
	}
	return scaled.BigInt().String(), nil
}
