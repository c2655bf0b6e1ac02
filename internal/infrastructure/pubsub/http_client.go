package pubsub

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// webhook replies are only logged, no need to read more than this
const maxReplySize = 4 << 10

const userAgent = "fundme-webhook/1"

type client struct {
	http *http.Client
}

func newHTTPClient(requestTimeout time.Duration) *client {
	return &client{&http.Client{Timeout: requestTimeout}}
}

// post sends body to url and returns the status code and the beginning of
// the reply.
func (c *client) post(
	ctx context.Context, url string, body []byte, headers map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(reply), nil
}
