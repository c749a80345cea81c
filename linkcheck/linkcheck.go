// Package linkcheck decides whether a URL is live enough to cite.
package linkcheck

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second
	// DefaultUserAgent mimics a desktop browser; many sites block bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// softNotFoundWindow is how much of an HTML body is scanned for not-found phrases.
	softNotFoundWindow = 6 * 1024
)

// DefaultDenylist holds placeholder domains models like to invent.
var DefaultDenylist = []string{
	"example.com", "example.org", "example.net",
	"mock.com", "test.com", "yourdomain.com",
}

var softNotFoundPhrases = []string{
	"404 not found",
	"page not found",
	"doesn't exist",
	"can't be found",
	"404 - ",
	"error 404",
	"sorry, the page you requested",
	"404: page not found",
}

// Validator probes URLs. It is safe for concurrent use.
type Validator struct {
	client    *http.Client
	userAgent string
	denylist  []string
	logger    *slog.Logger
}

// Option customizes a Validator.
type Option func(*Validator)

// WithHTTPClient replaces the probing client.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Validator) { v.client = c }
}

// WithDenylist replaces the placeholder domain list.
func WithDenylist(domains []string) Option {
	return func(v *Validator) { v.denylist = domains }
}

// WithLogger sets the logger used for rejections.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

func New(opts ...Option) *Validator {
	v := &Validator{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		denylist:  DefaultDenylist,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsValid reports whether rawURL answers 200 or 403 and is not a soft-404.
// Any error counts as invalid.
func (v *Validator) IsValid(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if v.denied(u.Hostname()) {
		v.logger.Debug("link rejected", slog.String("url", rawURL), slog.String("reason", "denylisted domain"))
		return false
	}

	status, contentType, err := v.probe(ctx, http.MethodHead, u.String())
	if err != nil {
		v.logger.Debug("head probe failed, retrying with get", slog.String("url", rawURL), slog.Any("error", err))
	} else {
		switch {
		case status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented:
			// HEAD not supported; fall through to GET.
		case !accepted(status):
			v.logger.Debug("link rejected", slog.String("url", rawURL), slog.Int("status", status))
			return false
		case contentType != "" && !isHTML(contentType):
			return true
		}
	}

	ok, reason := v.fetch(ctx, u.String())
	if !ok {
		v.logger.Debug("link rejected", slog.String("url", rawURL), slog.String("reason", reason))
	}
	return ok
}

func (v *Validator) denied(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, d := range v.denylist {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func (v *Validator) probe(ctx context.Context, method, target string) (int, string, error) {
	req, err := v.newRequest(ctx, method, target)
	if err != nil {
		return 0, "", err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}

// fetch issues a GET and scans the head of HTML bodies for not-found text.
func (v *Validator) fetch(ctx context.Context, target string) (bool, string) {
	req, err := v.newRequest(ctx, http.MethodGet, target)
	if err != nil {
		return false, err.Error()
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()

	if !accepted(resp.StatusCode) {
		return false, "status " + resp.Status
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return true, ""
	}
	head, err := io.ReadAll(io.LimitReader(resp.Body, softNotFoundWindow))
	if err != nil {
		return false, err.Error()
	}
	body := strings.ToLower(string(head))
	for _, phrase := range softNotFoundPhrases {
		if strings.Contains(body, phrase) {
			return false, "soft 404: " + phrase
		}
	}
	return true, ""
}

func (v *Validator) newRequest(ctx context.Context, method, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return req, nil
}

// 403 usually means bot blocking rather than absence.
func accepted(status int) bool {
	return status == http.StatusOK || status == http.StatusForbidden
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
