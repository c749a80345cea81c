package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Media is an uploaded library item.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// UploadMedia sends a local file as the raw request body.
func (p *WordPress) UploadMedia(ctx context.Context, path string) (Media, error) {
	file, err := os.Open(path)
	if err != nil {
		return Media{}, err
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+apiPrefix+"/media", file)
	if err != nil {
		return Media{}, err
	}
	name := filepath.Base(path)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	req.Header.Set("Content-Type", mimeType(name))

	var m Media
	if err := p.do(req, http.StatusCreated, &m); err != nil {
		return Media{}, fmt.Errorf("upload %s: %w", name, err)
	}
	p.logger.Info("media uploaded", slog.String("file", name), slog.Int64("id", m.ID))
	return m, nil
}

// SetMediaAltText updates the alt text of an uploaded item.
func (p *WordPress) SetMediaAltText(ctx context.Context, id int64, alt string) error {
	req, err := p.newJSONRequest(ctx, http.MethodPost, "/media/"+strconv.FormatInt(id, 10), map[string]string{"alt_text": alt})
	if err != nil {
		return err
	}
	return p.do(req, http.StatusOK, nil)
}

func mimeType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "image/png"
}

var markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// UploadInlineImages uploads local images referenced from markdown and points
// the references at the uploaded copies. Remote and data: URLs are left alone.
func (p *WordPress) UploadInlineImages(ctx context.Context, md, baseDir string) (string, error) {
	matches := markdownImageRe.FindAllStringSubmatchIndex(md, -1)
	if len(matches) == 0 {
		return md, nil
	}

	var builder strings.Builder
	last := 0
	for _, match := range matches {
		start, end := match[2], match[3]
		builder.WriteString(md[last:start])
		last = end
		ref := strings.TrimSpace(md[start:end])
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
			builder.WriteString(ref)
			continue
		}
		localPath := ref
		if !filepath.IsAbs(localPath) {
			if _, statErr := os.Stat(localPath); statErr != nil {
				localPath = filepath.Join(baseDir, ref)
			}
		}
		m, err := p.UploadMedia(ctx, localPath)
		if err != nil {
			return "", err
		}
		builder.WriteString(m.SourceURL)
	}
	builder.WriteString(md[last:])
	return builder.String(), nil
}
