package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const apiPrefix = "/wp-json/wp/v2"

// Site is one WordPress destination and its application password credentials.
type Site struct {
	URL         string `json:"url" yaml:"url"`
	Username    string `json:"username" yaml:"username"`
	AppPassword string `json:"app_password" yaml:"app_password"`
}

// APIError is a non-success answer from the REST API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("wordpress: status %d", e.Status)
	}
	return fmt.Sprintf("wordpress: %s (%d): %s", e.Code, e.Status, e.Message)
}

// WordPress talks to one site's REST API.
type WordPress struct {
	site   Site
	base   string
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// New validates the site credentials and returns a client for it.
func New(site Site, client *http.Client, logger *slog.Logger) (*WordPress, error) {
	if site.URL == "" || site.Username == "" || site.AppPassword == "" {
		return nil, errors.New("site must include url, username and app_password")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(site.URL, "/")
	return &WordPress{
		site:   site,
		base:   base,
		client: client,
		logger: logger.With(slog.String("site", base)),
		now:    time.Now,
	}, nil
}

// SiteURL is the normalized site root.
func (p *WordPress) SiteURL() string {
	return p.base
}

// do sends an authenticated request and decodes a JSON answer into out when the
// status matches want. Any other status becomes an *APIError.
func (p *WordPress) do(req *http.Request, want int, out any) error {
	req.SetBasicAuth(p.site.Username, p.site.AppPassword)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code, apiErr.Message, apiErr.Data = payload.Code, payload.Message, payload.Data
		} else {
			apiErr.Message = truncate(string(body), 200)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("wordpress: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func (p *WordPress) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.base+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
