package main

import (
	"net/url"

	"github.com/urfave/cli/v2"
)

var topicFlag = cli.StringFlag{
	Name:  "topic",
	Usage: "the FundMe event for which the webhook gets notified: funded, withdrawn or * for any",
}

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "the endpoint where to notify the webhook",
			Required: true,
		},
		&cli.StringFlag{
			Name: "secret",
			Usage: "the eventual secret to use to generate an OAuth token for " +
				"authenticating requests to the webhook endpoint",
			Value: "",
		},
		&topicFlag,
	},
	Action: addWebhookAction,
}

var removewebhook = cli.Command{
	Name:      "removewebhook",
	Usage:     "remove a webhook",
	ArgsUsage: "<id>",
	Action:    removeWebhookAction,
}

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list all webhooks, optionally filtered by topic",
	Flags: []cli.Flag{
		&topicFlag,
	},
	Action: listWebhooksAction,
}

func addWebhookAction(ctx *cli.Context) error {
	return run(func(c *client) ([]byte, error) {
		return c.post("/webhooks", map[string]string{
			"topic":    ctx.String("topic"),
			"endpoint": ctx.String("endpoint"),
			"secret":   ctx.String("secret"),
		})
	})
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	id := ctx.Args().First()

	return run(func(c *client) ([]byte, error) {
		return c.delete("/webhooks/" + url.PathEscape(id))
	})
}

func listWebhooksAction(ctx *cli.Context) error {
	path := "/webhooks"
	if topic := ctx.String("topic"); topic != "" {
		path += "?topic=" + url.QueryEscape(topic)
	}
	return getAction(path)
}
