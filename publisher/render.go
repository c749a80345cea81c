package publisher

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// SimulationNotice is prepended to posts whose text came from simulated responses.
const SimulationNotice = `<div style="background:#fff3cd;color:#856404;padding:12px;border:1px solid #ffeeba;border-radius:4px;margin-bottom:16px;"><strong>Notice:</strong> This article was generated in simulation mode because no language model was available. It was saved as a draft for review.</div>`

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	bodyPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// RenderHTML converts markdown to sanitized HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return bodyPolicy.Sanitize(buf.String()), nil
}

// plainText strips tags and decodes entities, as in rendered titles and term names.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// DefaultDigest flattens md and cuts it to limit bytes on a rune boundary.
func DefaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	if len(joined) <= limit {
		return joined
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(joined[cut]) {
		cut--
	}
	return joined[:cut]
}
