// Package http downloads papers from a web archive.
//
// The archive answers a request for a missing document by redirecting to a
// generic landing page rather than with a 404, so the handler compares the
// final URL of the response (after redirects) with the configured sentinel
// URL to decide whether the document exists.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yanNotDev/search-past-papers/internal/registry"
)

const (
	// DefaultURL is the papacambridge CAIE upload directory.
	DefaultURL = "https://pastpapers.papacambridge.com/directories/CAIE/CAIE-pastpapers/upload/{{id}}.pdf"

	// DefaultSentinel is where papacambridge sends requests for missing files.
	DefaultSentinel = "https://papacambridge.com/home/index.html"

	// DefaultTimeout bounds one download.
	DefaultTimeout = 60 * time.Second

	maxRedirects = 10
)

type handler struct{ client *resty.Client }

type sentinelKey struct{}

// stopAtSentinel follows redirects like a browser but does not request the
// sentinel page itself; Fetch recognises the redirect to it.
func stopAtSentinel(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if s, _ := req.Context().Value(sentinelKey{}).(string); s != "" && req.URL.String() == s {
		return http.ErrUseLastResponse
	}
	return nil
}

// New returns a handler whose requests time out after timeout; zero means
// DefaultTimeout.
func New(timeout time.Duration) *handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(stopAtSentinel)).
		SetHeader("User-Agent", "spp")
	return &handler{client: c}
}

func (h *handler) Name() string { return "http" }

// URLFor expands the {{id}} placeholder of a URL template.
func URLFor(tmpl, id string) string {
	return strings.ReplaceAll(tmpl, "{{id}}", id)
}

func (h *handler) Fetch(ctx context.Context, src registry.Source, id string) ([]byte, error) {
	if src.URL == "" {
		return nil, errors.New("http: missing source.url")
	}
	target := URLFor(src.URL, id)

	reqCtx := context.WithValue(ctx, sentinelKey{}, src.Sentinel)
	resp, err := h.client.R().SetContext(reqCtx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("http GET %s: %w: %v", target, registry.ErrTransport, err)
	}

	if final := finalURL(resp, target); src.Sentinel != "" && final == src.Sentinel {
		return nil, fmt.Errorf("http GET %s: redirected to %s: %w", target, final, registry.ErrNotFound)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("http GET %s: %s: %w", target, resp.Status(), registry.ErrStatus)
	}
	return resp.Body(), nil
}

// finalURL is where the request ended up: the URL of the last request made,
// or the pending redirect target when following stopped at the sentinel.
func finalURL(resp *resty.Response, target string) string {
	raw := resp.RawResponse
	if raw == nil || raw.Request == nil || raw.Request.URL == nil {
		return target
	}
	if raw.StatusCode >= http.StatusMultipleChoices && raw.StatusCode < http.StatusBadRequest {
		if loc, err := raw.Location(); err == nil {
			return loc.String()
		}
	}
	return raw.Request.URL.String()
}
