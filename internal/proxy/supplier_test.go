package proxy

import (
	"context"
	"testing"
)

func TestProxySupplier_keepsWorkingProxiesInRoundRobin(t *testing.T) {
	t.Parallel()

	check := func(ctx context.Context, proxyURL, testURL string) bool {
		return proxyURL != "http://bad:8080"
	}
	s := newProxySupplier(context.Background(),
		[]string{"http://a:8080", "http://bad:8080", "http://b:8080"},
		"https://example.com", check)

	got := []string{s.Get(), s.Get(), s.Get()}
	want := []string{"http://a:8080", "http://b:8080", "http://a:8080"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Get #%d got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProxySupplier_empty(t *testing.T) {
	t.Parallel()

	s := NewProxySupplier(context.Background(), nil, "https://example.com")
	if got := s.Get(); got != "" {
		t.Fatalf("Get got %q, want empty", got)
	}
}
