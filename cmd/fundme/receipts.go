package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var receipts = cli.Command{
	Name:  "receipts",
	Usage: "list the receipts of the mined transactions",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "the page number, starting from 1",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "the number of receipts per page",
		},
	},
	Action: receiptsAction,
}

var receipt = cli.Command{
	Name:      "receipt",
	Usage:     "get the receipt of a transaction",
	ArgsUsage: "<tx hash>",
	Action:    receiptAction,
}

func receiptsAction(ctx *cli.Context) error {
	path := "/receipts"
	if ctx.IsSet("page") || ctx.IsSet("size") {
		path = fmt.Sprintf("%s?page=%d&size=%d", path, ctx.Int("page"), ctx.Int("size"))
	}
	return getAction(path)
}

func receiptAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	return getAction("/receipts/" + ctx.Args().First())
}
