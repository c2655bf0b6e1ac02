package main

import (
	"github.com/urfave/cli/v2"
)

var deploy = cli.Command{
	Name:  "deploy",
	Usage: "run the deploy scripts, mocks are deployed only on development chains",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "tags",
			Usage: "the deploy tags to run: all, mocks or fundme, defaults to all",
		},
	},
	Action: deployAction,
}

var deployments = cli.Command{
	Name:      "deployments",
	Usage:     "list the deployed contracts or get one by name",
	ArgsUsage: "[name]",
	Action:    deploymentsAction,
}

func deployAction(ctx *cli.Context) error {
	return run(func(c *client) ([]byte, error) {
		return c.post("/deploy", map[string][]string{
			"tags": ctx.StringSlice("tags"),
		})
	})
}

func deploymentsAction(ctx *cli.Context) error {
	path := "/deployments"
	if ctx.NArg() > 0 {
		path += "/" + ctx.Args().First()
	}

	return run(func(c *client) ([]byte, error) {
		return c.get(path)
	})
}
