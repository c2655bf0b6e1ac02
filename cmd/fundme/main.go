package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	fundmeDataDir = btcutil.AppDataDir("fundme-cli", false)
	statePath     = filepath.Join(fundmeDataDir, "state.json")

	out io.Writer = os.Stdout
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "fundme CLI"
	app.Usage = "Command line interface for fundmed daemon users"
	app.Writer = out
	app.Commands = append(
		app.Commands,
		&config,
		&info,
		&accounts,
		&balance,
		&rejectpayments,
		&deploy,
		&deployments,
		&fundme,
		&fund,
		&send,
		&withdraw,
		&cheaperwithdraw,
		&owner,
		&pricefeed,
		&funder,
		&funders,
		&amountfunded,
		&contractbalance,
		&price,
		&updateprice,
		&receipts,
		&receipt,
		&addwebhook,
		&removewebhook,
		&listwebhooks,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(fundmeDataDir, os.ModeDir|0755); err != nil {
		return err
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp, "", "\t"); err != nil {
		fmt.Fprintln(out, "unable to decode response: ", err)
		return
	}

	fmt.Fprintln(out, buf.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[fundme] %v\n", err)
	}
	os.Exit(1)
}
