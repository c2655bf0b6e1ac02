package main

import (
	"github.com/urfave/cli/v2"
)

var (
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount of ether to send, ie. 0.1",
		Required: true,
	}
	gasLimitFlag = cli.Uint64Flag{
		Name:  "gas_limit",
		Usage: "the max gas the transaction can use, defaults to the block gas limit",
	}
)

var fund = cli.Command{
	Name:  "fund",
	Usage: "fund the FundMe contract, the amount must be worth at least 50 USD",
	Flags: []cli.Flag{
		&fromFlag,
		&amountFlag,
		&gasLimitFlag,
	},
	Action: fundAction,
}

var send = cli.Command{
	Name:  "send",
	Usage: "send ether to FundMe with optional call data, triggering receive or fallback",
	Flags: []cli.Flag{
		&fromFlag,
		&amountFlag,
		&gasLimitFlag,
		&cli.StringFlag{
			Name:  "data",
			Usage: "hex encoded call data",
		},
	},
	Action: sendAction,
}

var withdraw = cli.Command{
	Name:  "withdraw",
	Usage: "withdraw all funds to the owner, only the owner can call it",
	Flags: []cli.Flag{
		&fromFlag,
		&gasLimitFlag,
	},
	Action: withdrawAction("/fundme/withdraw"),
}

var cheaperwithdraw = cli.Command{
	Name:  "cheaperwithdraw",
	Usage: "same as withdraw with less storage reads",
	Flags: []cli.Flag{
		&fromFlag,
		&gasLimitFlag,
	},
	Action: withdrawAction("/fundme/cheaper-withdraw"),
}

type txRequest struct {
	From     string `json:"from,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Data     string `json:"data,omitempty"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
}

func newTxRequest(ctx *cli.Context) (txRequest, error) {
	from, err := getFrom(ctx)
	if err != nil {
		return txRequest{}, err
	}
	return txRequest{
		From:     from,
		Amount:   ctx.String("amount"),
		Data:     ctx.String("data"),
		GasLimit: ctx.Uint64("gas_limit"),
	}, nil
}

func fundAction(ctx *cli.Context) error {
	req, err := newTxRequest(ctx)
	if err != nil {
		return err
	}

	return run(func(c *client) ([]byte, error) {
		return c.post("/fundme/fund", req)
	})
}

func sendAction(ctx *cli.Context) error {
	req, err := newTxRequest(ctx)
	if err != nil {
		return err
	}

	return run(func(c *client) ([]byte, error) {
		return c.post("/fundme/send", req)
	})
}

func withdrawAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		req, err := newTxRequest(ctx)
		if err != nil {
			return err
		}

		return run(func(c *client) ([]byte, error) {
			return c.post(path, req)
		})
	}
}
