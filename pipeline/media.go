package pipeline

import (
	"context"

	"auto_article_pipeline/article"
	"auto_article_pipeline/generator"
)

// Media creates the featured image and its alt text. The text payload passes
// through unchanged.
type Media struct {
	agent
	images generator.ImageGenerator
}

func NewMedia(run *RunContext, invoker *generator.Invoker, images generator.ImageGenerator) *Media {
	return &Media{
		agent: agent{
			name:    "MediaAgent",
			persona: mediaPersona,
			role:    generator.RoleMedia,
			run:     run,
			invoker: invoker,
		},
		images: images,
	}
}

func (s *Media) Run(ctx context.Context, in Payload) (Payload, error) {
	out := Payload{Text: in.Text}
	if s.images == nil {
		s.log("No image generator configured; skipping featured image.")
		return out, nil
	}

	body := article.Body(in.Text)
	prompt := "Professional digital art for an article about: " + firstRunes(body, 150) + "..."
	s.log("Generating featured image...")
	path, err := s.images.Generate(ctx, prompt)
	if err != nil {
		s.log("Image generation failed: " + err.Error())
		return out, nil
	}
	s.log("Featured image saved to " + path)

	alt, err := s.generate(ctx, s.persona, "Generate a descriptive, SEO-friendly alt text for an image about: "+firstRunes(body, 200))
	if err != nil {
		return Payload{}, err
	}
	out.Media = &MediaAsset{Path: path, AltText: alt}
	return out, nil
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
