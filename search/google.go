package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GoogleEndpoint is the Custom Search JSON API.
const GoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE queries Google Programmable Search.
type GoogleCSE struct {
	APIKey     string
	CX         string
	MaxResults int
	Endpoint   string
	client     *http.Client
}

func NewGoogleCSE(apiKey, cx string, maxResults int, client *http.Client) *GoogleCSE {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 5
	}
	return &GoogleCSE{APIKey: apiKey, CX: cx, MaxResults: maxResults, Endpoint: GoogleEndpoint, client: client}
}

type cseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GoogleCSE) Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("key", g.APIKey)
	q.Set("cx", g.CX)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(g.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data cseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("google search: decode: %w", err)
	}
	if data.Error != nil {
		return nil, fmt.Errorf("google search: %d %s", data.Error.Code, data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search: status %d", resp.StatusCode)
	}

	results := make([]Result, 0, len(data.Items))
	for _, it := range data.Items {
		results = append(results, Result{Title: it.Title, URL: it.Link, Snippet: it.Snippet})
	}
	return results, nil
}
