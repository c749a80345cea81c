package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_article_pipeline/generator"
	"auto_article_pipeline/publisher"
	"auto_article_pipeline/store"
)

type stubStep struct {
	name string
	fn   func(Payload) (Payload, error)
}

func (s stubStep) Name() string    { return s.name }
func (s stubStep) Persona() string { return "stub persona for " + s.name }
func (s stubStep) Run(_ context.Context, in Payload) (Payload, error) {
	return s.fn(in)
}

func appendStep(name string) stubStep {
	return stubStep{name: name, fn: func(in Payload) (Payload, error) {
		return Payload{Text: in.Text + ">" + name}, nil
	}}
}

func TestOrchestratorChainsSteps(t *testing.T) {
	rc := NewRunContext("", Credentials{}, nil, nil)
	o := NewOrchestrator(rc, appendStep("A"), appendStep("B"), appendStep("C"))

	out, err := o.Run(context.Background(), "  topic ")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, o.Steps())
	assert.Equal(t, "  topic >A>B>C", out.Output.Text)
	assert.Equal(t, "topic", rc.Topic())
	assert.Contains(t, out.Log, "[ContentManager] Phase 2: Delegating to B (stub persona for B)")
	assert.Equal(t, "[ContentManager] Workflow orchestration complete. Content finalized.", out.Log[len(out.Log)-1])
	assert.False(t, out.Simulated)
}

func TestOrchestratorStopsOnError(t *testing.T) {
	rc := NewRunContext("", Credentials{}, nil, nil)
	boom := errors.New("boom")
	ran := false
	o := NewOrchestrator(rc,
		appendStep("A"),
		stubStep{name: "B", fn: func(Payload) (Payload, error) { return Payload{}, boom }},
		stubStep{name: "C", fn: func(in Payload) (Payload, error) { ran = true; return in, nil }},
	)

	out, err := o.Run(context.Background(), "topic")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "B: boom", err.Error())
	assert.False(t, ran)
	assert.NotEmpty(t, out.Log)
}

func TestPipelineWithoutCredentialAbortsBeforePublishing(t *testing.T) {
	rc := NewRunContext("", Credentials{Sites: []publisher.Site{{URL: "https://a.example"}}}, nil, nil)
	invoker := generator.NewInvoker(nil, "m1", nil, false)
	opened := 0
	factory := func(publisher.Site) (Target, error) {
		opened++
		return nil, errors.New("should not be reached")
	}

	o := NewOrchestrator(rc,
		NewIdeation(rc, invoker, nil),
		NewResearch(rc, invoker, nil, allowLinks{}),
		NewWriting(rc, invoker),
		NewOptimization(rc, invoker, allowLinks{}, factory),
		NewMedia(rc, invoker, nil),
		NewPublishing(rc, invoker, factory),
	)

	out, err := o.Run(context.Background(), "edge computing")
	require.Error(t, err)
	assert.True(t, generator.IsConfigurationError(err))
	assert.Zero(t, opened)
	assert.Equal(t, store.StatusFailed, JobStatus(out, err))
}

func TestPipelineSimulatedRunEndsAsDraft(t *testing.T) {
	site := newFakeTarget("https://blog.example")
	sink := &sinkRecorder{}
	rc := NewRunContext("job-9", Credentials{Sites: sitesFor(site)}, sink, nil)
	invoker := generator.NewInvoker(nil, "m1", nil, true)
	links := allowLinks{"https://example.com/go-generics-report": true}
	factory := factoryFor(site)

	o := NewOrchestrator(rc,
		NewIdeation(rc, invoker, &fakeSearcher{}),
		NewResearch(rc, invoker, &fakeSearcher{}, links),
		NewWriting(rc, invoker),
		NewOptimization(rc, invoker, links, factory),
		NewMedia(rc, invoker, fakeImages{path: "featured.png"}),
		NewPublishing(rc, invoker, factory),
	)

	out, err := o.Run(context.Background(), "go generics")
	require.NoError(t, err)

	assert.True(t, out.Simulated)
	require.Len(t, site.posts, 1)
	post := site.posts[0]
	assert.Equal(t, publisher.StatusDraft, post.Status)
	assert.Equal(t, "Master go generics | Professional Guide", post.Title)
	assert.Equal(t, "mastering-go-generics", post.Slug)
	assert.True(t, strings.HasPrefix(post.Content, publisher.SimulationNotice))
	assert.NotZero(t, post.FeaturedMedia)

	assert.Contains(t, out.Output.Text, "**Saved as Draft (https://blog.example):**")
	assert.Equal(t, store.StatusDraft, JobStatus(out, nil))
	assert.NotEmpty(t, sink.updates)
	assert.Equal(t, "ContentManager: Workflow orchestration complete. Content finalized.", sink.updates[len(sink.updates)-1])
}
