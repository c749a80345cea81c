package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"auto_article_pipeline/article"
)

// Post statuses.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Post is the create-post payload.
type Post struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Status        string  `json:"status"`
	Slug          string  `json:"slug,omitempty"`
	Excerpt       string  `json:"excerpt,omitempty"`
	FeaturedMedia int64   `json:"featured_media,omitempty"`
	Categories    []int64 `json:"categories,omitempty"`
	Tags          []int64 `json:"tags,omitempty"`
}

type postResp struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
	Slug string `json:"slug"`
}

// CreatePost creates the post and returns its public URL.
func (p *WordPress) CreatePost(ctx context.Context, post Post) (string, error) {
	req, err := p.newJSONRequest(ctx, http.MethodPost, "/posts", post)
	if err != nil {
		return "", err
	}
	var data postResp
	if err := p.do(req, http.StatusCreated, &data); err != nil {
		return "", err
	}
	p.logger.Info("post created", slog.Int64("id", data.ID), slog.String("status", post.Status))

	slug := data.Slug
	if slug == "" {
		slug = post.Slug
	}
	return p.permalink(data.Link, slug), nil
}

// permalink turns the ?p=ID form WordPress returns for some setups into the
// date based pretty permalink.
func (p *WordPress) permalink(link, slug string) string {
	if link != "" && !strings.Contains(link, "?p=") {
		return link
	}
	if slug == "" {
		return link
	}
	return fmt.Sprintf("%s/%s/%s/", p.base, p.now().Format("2006/01/02"), slug)
}

type recentPost struct {
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Link string `json:"link"`
}

// RecentPosts lists the newest count posts as links.
func (p *WordPress) RecentPosts(ctx context.Context, count int) ([]article.Link, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(count))
	q.Set("_fields", "title,link")
	req, err := p.newJSONRequest(ctx, http.MethodGet, "/posts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var data []recentPost
	if err := p.do(req, http.StatusOK, &data); err != nil {
		return nil, err
	}
	links := make([]article.Link, 0, len(data))
	for _, rp := range data {
		if rp.Link == "" {
			continue
		}
		links = append(links, article.Link{Title: plainText(rp.Title.Rendered), URL: rp.Link})
	}
	return links, nil
}
