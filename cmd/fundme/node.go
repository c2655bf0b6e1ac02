package main

import (
	"github.com/urfave/cli/v2"
)

var info = cli.Command{
	Name:  "info",
	Usage: "get info about the network the daemon is running",
	Action: func(ctx *cli.Context) error {
		return run(func(c *client) ([]byte, error) {
			return c.get("/info")
		})
	},
}

var accounts = cli.Command{
	Name:  "accounts",
	Usage: "list the signer accounts of the daemon",
	Action: func(ctx *cli.Context) error {
		return run(func(c *client) ([]byte, error) {
			return c.get("/accounts")
		})
	},
}

var balance = cli.Command{
	Name:      "balance",
	Usage:     "get the balance of an account",
	ArgsUsage: "<address>",
	Action:    balanceAction,
}

var rejectpayments = cli.Command{
	Name:      "rejectpayments",
	Usage:     "make an account refuse (or accept again) ether transfers, only on development chains",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "accept",
			Usage: "accept payments again",
			Value: false,
		},
	},
	Action: rejectPaymentsAction,
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	address := ctx.Args().First()

	return run(func(c *client) ([]byte, error) {
		return c.get("/accounts/" + address + "/balance")
	})
}

func rejectPaymentsAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	address := ctx.Args().First()

	return run(func(c *client) ([]byte, error) {
		return c.post(
			"/accounts/"+address+"/reject-payments",
			map[string]bool{"reject": !ctx.Bool("accept")},
		)
	})
}
