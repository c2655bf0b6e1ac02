package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

const (
	rpcServerKey = "rpcserver"
	fromKey      = "from"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  rpcServerKey,
		Usage: "fundmed REST interface address",
		Value: "http://localhost:9945",
	}

	defaultFromFlag = cli.StringFlag{
		Name:  fromKey,
		Usage: "the signer account used by default to send transactions",
		Value: "",
	}

	fromFlag = cli.StringFlag{
		Name:  fromKey,
		Usage: "the signer account sending the transaction, overrides the one in the local state",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the fundme CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&defaultFromFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintln(out, key+": "+state[key])
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		rpcServerKey: c.String(rpcServerKey),
		fromKey:      c.String(fromKey),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s has been set\n", key, value)

	return nil
}

// getFrom returns the sender given with --from or the one in the local state,
// empty lets the daemon pick its first signer.
func getFrom(ctx *cli.Context) (string, error) {
	if from := ctx.String(fromKey); from != "" {
		return from, nil
	}
	state, err := getState()
	if err != nil {
		return "", err
	}
	return state[fromKey], nil
}
