package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
	"auto_article_pipeline/search"
)

type allowLinks map[string]bool

func (a allowLinks) IsValid(_ context.Context, url string) bool { return a[url] }

type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, q string) ([]search.Result, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

type fakeImages struct {
	path string
	err  error
}

func (f fakeImages) Generate(context.Context, string) (string, error) { return f.path, f.err }

type sinkRecorder struct {
	updates []string
	err     error
}

func (s *sinkRecorder) UpdateProgress(_ context.Context, _, logs, step string) error {
	s.updates = append(s.updates, step)
	return s.err
}

// fakeTarget is an in-memory WordPress.
type fakeTarget struct {
	url        string
	failStatus map[string]error
	recent     []article.Link
	terms      map[string]int64
	posts      []publisher.Post
	uploads    []string
	altTexts   map[int64]string
	nextID     int64
}

func newFakeTarget(url string) *fakeTarget {
	return &fakeTarget{url: url, terms: map[string]int64{}, altTexts: map[int64]string{}, nextID: 100}
}

func (f *fakeTarget) SiteURL() string { return f.url }

func (f *fakeTarget) UploadMedia(_ context.Context, path string) (publisher.Media, error) {
	f.uploads = append(f.uploads, path)
	f.nextID++
	return publisher.Media{ID: f.nextID, SourceURL: f.url + "/uploads/" + path}, nil
}

func (f *fakeTarget) SetMediaAltText(_ context.Context, id int64, alt string) error {
	f.altTexts[id] = alt
	return nil
}

func (f *fakeTarget) UploadInlineImages(_ context.Context, md, _ string) (string, error) {
	return md, nil
}

func (f *fakeTarget) ResolveTerm(_ context.Context, tax publisher.Taxonomy, name string) (int64, error) {
	key := string(tax) + ":" + strings.ToLower(name)
	if id, ok := f.terms[key]; ok {
		return id, nil
	}
	f.nextID++
	f.terms[key] = f.nextID
	return f.nextID, nil
}

func (f *fakeTarget) CreatePost(_ context.Context, post publisher.Post) (string, error) {
	f.posts = append(f.posts, post)
	if err := f.failStatus[post.Status]; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s-%s/", f.url, post.Slug, post.Status), nil
}

func (f *fakeTarget) RecentPosts(context.Context, int) ([]article.Link, error) {
	return f.recent, nil
}

func factoryFor(targets ...*fakeTarget) TargetFactory {
	byURL := make(map[string]*fakeTarget)
	for _, t := range targets {
		byURL[t.url] = t
	}
	return func(site publisher.Site) (Target, error) {
		if t, ok := byURL[site.URL]; ok {
			return t, nil
		}
		return nil, errors.New("unknown site " + site.URL)
	}
}

func sitesFor(targets ...*fakeTarget) []publisher.Site {
	var sites []publisher.Site
	for _, t := range targets {
		sites = append(sites, publisher.Site{URL: t.url, Username: "u", AppPassword: "p"})
	}
	return sites
}

// scriptedLLM answers by matching a substring of the user prompt.
func scriptedLLM(rules map[string]string, fallback string) *generator.MockLLM {
	return &generator.MockLLM{Reply: func(_ string, p generator.Prompt) string {
		for needle, reply := range rules {
			if strings.Contains(p.User, needle) {
				return reply
			}
		}
		return fallback
	}}
}
