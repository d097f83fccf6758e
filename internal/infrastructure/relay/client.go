package relay

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// proxiedClient bundles a per-call HTTP client with the human-readable
// description of the proxies it routes through.
type proxiedClient struct {
	client    *http.Client
	proxyInfo string
}

// newClient builds the per-call client for a descriptor. Proxy URLs are
// validated eagerly so a malformed value fails the whole call before any
// network activity. The returned description is empty for direct
// connections, otherwise "HTTP Proxy: <u>" / "HTTPS Proxy: <u>" joined with
// a comma.
func newClient(proxy *domain.ProxyConfig) (*proxiedClient, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	if proxy == nil || proxy.IsZero() {
		return &proxiedClient{client: &http.Client{Transport: transport}}, nil
	}

	var (
		httpURL  *url.URL
		httpsURL *url.URL
		applied  []string
		err      error
	)
	if proxy.HTTPProxy != "" {
		httpURL, err = parseProxyURL("http", proxy.HTTPProxy)
		if err != nil {
			return nil, err
		}
		applied = append(applied, "HTTP Proxy: "+proxy.HTTPProxy)
	}
	if proxy.HTTPSProxy != "" {
		httpsURL, err = parseProxyURL("https", proxy.HTTPSProxy)
		if err != nil {
			return nil, err
		}
		applied = append(applied, "HTTPS Proxy: "+proxy.HTTPSProxy)
	}

	// Route by request scheme only. Loopback destinations are NOT exempted:
	// desktop setups relay to local model servers through the same proxies.
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" {
			return httpsURL, nil
		}
		return httpURL, nil
	}

	return &proxiedClient{
		client:    &http.Client{Transport: transport},
		proxyInfo: strings.Join(applied, ", "),
	}, nil
}

// parseProxyURL validates one proxy URL for the named traffic scheme.
func parseProxyURL(traffic, raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s proxy URL %q: %w", traffic, raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid %s proxy URL %q: scheme %q not supported (expected http or https)", traffic, raw, parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid %s proxy URL %q: missing host", traffic, raw)
	}
	return parsed, nil
}
