package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var (
	// ErrNotFound is returned when the upstream API has no such entity.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited is returned while the circuit breaker is open.
	ErrRateLimited = errors.New("upstream rate limit exceeded")
)

// StatusError is an upstream response with a failure status.
type StatusError struct {
	Upstream string
	Code     int
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s HTTP error: %d %s", e.Upstream, e.Code, e.Status)
}

// restClient is the JSON transport shared by the upstream API clients.
type restClient struct {
	name          string
	baseURL       string
	rl            ratelimit.Limiter
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier
	timeout       time.Duration

	// Circuit breaker for rate limiting
	circuitBreakerMutex sync.RWMutex
	rateLimitedUntil    time.Time
	circuitBreakerDelay time.Duration
}

func newRestClient(name, baseURL string, cfg config.HTTPConfig, proxySupplier proxy.ProxySupplier) *restClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 %s: using initial proxy %s", name, proxyURL)
		}
	}

	return &restClient{
		name:                name,
		baseURL:             strings.TrimRight(baseURL, "/"),
		rl:                  ratelimit.New(rps),
		httpClient:          client,
		proxySupplier:       proxySupplier,
		timeout:             timeout,
		circuitBreakerDelay: time.Duration(cfg.CircuitBreakerDelay) * time.Second,
	}
}

func (c *restClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.rateLimitedUntil)
	wasTriggered := !c.rateLimitedUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.rateLimitedUntil.IsZero() && now.After(c.rateLimitedUntil) {
			c.rateLimitedUntil = time.Time{}
			log.Infof("✅ %s: circuit breaker closed, requests are allowed again", c.name)
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *restClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.rateLimitedUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 %s: circuit breaker open until %v", c.name, c.rateLimitedUntil.Format("15:04:05"))
}

func (c *restClient) remainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.rateLimitedUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// getJSON fetches path (relative to the base URL) and decodes the body into out.
func (c *restClient) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	if c.isCircuitBreakerOpen() {
		remaining := c.remainingCircuitBreakerTime()
		log.Debugf("🚫 %s: request blocked by circuit breaker, %v left", c.name, remaining.Round(time.Second))
		return fmt.Errorf("%w: %s requests disabled for %v more", ErrRateLimited, c.name, remaining.Round(time.Second))
	}

	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	resp, err := c.do(reqCtx, url, params)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		log.Warnf("🚫 %s: rate limited on %s", c.name, url)

		resp, err = c.retryWithNextProxy(reqCtx, url, params)
		if err != nil || resp.StatusCode() == http.StatusTooManyRequests {
			c.triggerCircuitBreaker()
			return fmt.Errorf("%w: %s", ErrRateLimited, c.name)
		}
	}

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", c.name, path, ErrNotFound)
	}
	if resp.IsError() {
		return &StatusError{Upstream: c.name, Code: resp.StatusCode(), Status: resp.Status()}
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}

	log.Debugf("%s: GET %s -> %d", c.name, url, resp.StatusCode())
	return nil
}

func (c *restClient) do(ctx context.Context, url string, params map[string]string) (*resty.Response, error) {
	return c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
}

func (c *restClient) retryWithNextProxy(ctx context.Context, url string, params map[string]string) (*resty.Response, error) {
	if c.proxySupplier == nil {
		return nil, errors.New("no proxy supplier")
	}
	newProxy := c.proxySupplier.Get()
	if newProxy == "" {
		return nil, errors.New("no proxy available")
	}

	log.Infof("🔄 %s: switching to proxy %s and retrying", c.name, newProxy)
	c.httpClient.SetProxy(newProxy)

	return c.do(ctx, url, params)
}
