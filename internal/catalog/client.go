// Package catalog talks to the proxy API on behalf of the browser. It checks
// every response against the schema of its endpoint and turns it into the
// uniform Entry and fetch.Page values the views consume.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"multiverse/browser/internal/fetch"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Client performs GET requests against the proxy API base URL.
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// get returns the raw body. Transport failures wrap fetch.ErrNetwork and
// non-2xx statuses wrap fetch.ErrBackend.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := c.baseURL + path
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: GET %s: %v", fetch.ErrNetwork, path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: GET %s returned %s", fetch.ErrBackend, path, resp.Status())
	}

	log.Debugf("GET %s -> %d", url, resp.StatusCode())
	return []byte(resp.String()), nil
}
