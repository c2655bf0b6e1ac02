package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state[rpcServerKey]
	if !ok || address == "" {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}
	if !strings.HasPrefix(address, "http://") &&
		!strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}

	return &client{
		baseURL: strings.TrimSuffix(address, "/") + "/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *client) get(path string) ([]byte, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, body interface{}) ([]byte, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *client) delete(path string) ([]byte, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *client) do(method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to fundmed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		var errRes errorResponse
		if err := json.Unmarshal(resBody, &errRes); err != nil || errRes.Error == "" {
			return nil, fmt.Errorf("%s: %s", res.Status, string(resBody))
		}
		if errRes.Reason != "" {
			return nil, fmt.Errorf("%s (reason: %s)", errRes.Error, errRes.Reason)
		}
		return nil, errors.New(errRes.Error)
	}

	return resBody, nil
}

// run sends a request and prints the JSON response.
func run(fn func(c *client) ([]byte, error)) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := fn(c)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
