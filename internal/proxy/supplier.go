package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

// ProxySupplier hands out outbound HTTP proxies for the upstream clients.
type ProxySupplier interface {
	Get() string
}

// Checker reports whether a proxy can reach testURL.
type Checker func(ctx context.Context, proxyURL, testURL string) bool

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier keeps the proxies that pass a request to testURL.
// An empty list yields a supplier that always returns "".
func NewProxySupplier(ctx context.Context, proxies []string, testURL string) ProxySupplier {
	return newProxySupplier(ctx, proxies, testURL, isProxyValid)
}

func newProxySupplier(ctx context.Context, proxies []string, testURL string, check Checker) *proxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}

	log.Infof("🔄 Testing %d outbound proxies against %s...", len(proxies), testURL)

	valid := make([]bool, len(proxies))
	g := new(errgroup.Group)
	g.SetLimit(20)

	for i, proxyURL := range proxies {
		g.Go(func() error {
			if check(ctx, proxyURL, testURL) {
				valid[i] = true
				log.Infof("✅ Proxy %s is working", proxyURL)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
			}
			return nil
		})
	}
	_ = g.Wait()

	working := make([]string, 0, len(proxies))
	for i, ok := range valid {
		if ok {
			working = append(working, proxies[i])
		}
	}

	log.Infof("✅ Proxy supplier ready with %d of %d proxies", len(working), len(proxies))
	return &proxySupplier{proxies: working}
}

// Get returns the next proxy URL in round-robin order.
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)
	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
