package pipeline

import (
	"context"

	"auto_article_pipeline/generator"
)

// Writing drafts the article from the research briefing.
type Writing struct {
	agent
}

func NewWriting(run *RunContext, invoker *generator.Invoker) *Writing {
	return &Writing{agent: agent{
		name:    "WriterAgent",
		persona: writingPersona,
		role:    generator.RoleWriting,
		run:     run,
		invoker: invoker,
	}}
}

func (s *Writing) Run(ctx context.Context, in Payload) (Payload, error) {
	text, err := s.generate(ctx, s.persona, in.Text)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Text: text}, nil
}
