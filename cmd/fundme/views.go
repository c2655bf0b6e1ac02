package main

import (
	"strconv"

	"github.com/urfave/cli/v2"
)

var fundme = cli.Command{
	Name:  "fundme",
	Usage: "get address, owner, price feed, balance and funders of FundMe",
	Action: func(ctx *cli.Context) error {
		return getAction("/fundme")
	},
}

var owner = cli.Command{
	Name:  "owner",
	Usage: "get the owner of FundMe",
	Action: func(ctx *cli.Context) error {
		return getAction("/fundme/owner")
	},
}

var pricefeed = cli.Command{
	Name:  "pricefeed",
	Usage: "get the ETH/USD price feed used by FundMe",
	Action: func(ctx *cli.Context) error {
		return getAction("/fundme/price-feed")
	},
}

var funders = cli.Command{
	Name:  "funders",
	Usage: "list the funders of FundMe with the amount funded",
	Action: func(ctx *cli.Context) error {
		return getAction("/fundme/funders")
	},
}

var contractbalance = cli.Command{
	Name:  "contractbalance",
	Usage: "get the balance of FundMe",
	Action: func(ctx *cli.Context) error {
		return getAction("/fundme/balance")
	},
}

var funder = cli.Command{
	Name:      "funder",
	Usage:     "get the funder at the given index",
	ArgsUsage: "<index>",
	Action:    funderAction,
}

var amountfunded = cli.Command{
	Name:      "amountfunded",
	Usage:     "get the amount funded by an address since the last withdrawal",
	ArgsUsage: "<address>",
	Action:    amountFundedAction,
}

func funderAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	index, err := strconv.Atoi(ctx.Args().First())
	if err != nil {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	return getAction("/fundme/funders/" + strconv.Itoa(index))
}

func amountFundedAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	return getAction("/fundme/funded/" + ctx.Args().First())
}

func getAction(path string) error {
	return run(func(c *client) ([]byte, error) {
		return c.get(path)
	})
}
