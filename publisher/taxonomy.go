package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Taxonomy is a term collection endpoint.
type Taxonomy string

const (
	Categories Taxonomy = "categories"
	Tags       Taxonomy = "tags"
)

type term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ResolveTerm returns the id of the term called name, creating it only when no
// exact case-insensitive match exists.
func (p *WordPress) ResolveTerm(ctx context.Context, tax Taxonomy, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("term name is empty")
	}

	q := url.Values{}
	q.Set("search", name)
	q.Set("per_page", "100")
	req, err := p.newJSONRequest(ctx, http.MethodGet, "/"+string(tax)+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	var found []term
	if err := p.do(req, http.StatusOK, &found); err != nil {
		return 0, fmt.Errorf("search %s %q: %w", tax, name, err)
	}
	for _, t := range found {
		if strings.EqualFold(plainText(t.Name), name) {
			return t.ID, nil
		}
	}

	req, err = p.newJSONRequest(ctx, http.MethodPost, "/"+string(tax), map[string]string{"name": name})
	if err != nil {
		return 0, err
	}
	var created term
	err = p.do(req, http.StatusCreated, &created)
	if err == nil {
		p.logger.Info("term created", slog.String("taxonomy", string(tax)), slog.String("name", name), slog.Int64("id", created.ID))
		return created.ID, nil
	}
	// Search is fuzzy and paginated; a concurrent or slug collision shows up here.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == "term_exists" {
		var data struct {
			TermID int64 `json:"term_id"`
		}
		if json.Unmarshal(apiErr.Data, &data) == nil && data.TermID != 0 {
			return data.TermID, nil
		}
	}
	return 0, fmt.Errorf("create %s %q: %w", tax, name, err)
}
