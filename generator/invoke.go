package generator

import (
	"context"
	"strings"
)

// RunState is the part of a pipeline run the invoker touches.
type RunState interface {
	Log(source, message string)
	Topic() string
	MarkSimulated()
}

// Request is one generation call made on behalf of a step.
type Request struct {
	Agent   string
	Role    Role
	Persona string
	Input   string
}

// Result is one invocation outcome.
type Result struct {
	Text      string
	Model     string
	Simulated bool
}

// Invoker calls the LLM across an ordered model chain and falls back to a
// simulated response when every candidate fails.
type Invoker struct {
	llm      LLMClient
	models   []string
	simulate bool
}

// NewInvoker builds the candidate chain from primary and fallbacks. A nil llm
// is accepted; Invoke then reports a ConfigurationError unless simulate is set.
func NewInvoker(llm LLMClient, primary string, fallbacks []string, simulate bool) *Invoker {
	return &Invoker{
		llm:      llm,
		models:   CandidateModels(primary, fallbacks),
		simulate: simulate,
	}
}

// Models returns a copy of the candidate chain.
func (inv *Invoker) Models() []string {
	return append([]string(nil), inv.models...)
}

// Invoke generates text for req. Provider errors are logged and swallowed;
// only a missing credential is returned as an error.
func (inv *Invoker) Invoke(ctx context.Context, run RunState, req Request) (Result, error) {
	log := func(msg string) { run.Log(req.Agent, msg) }

	if !inv.simulate {
		if inv.llm == nil {
			return Result{}, &ConfigurationError{Reason: "missing generation API key; set llm.api_key or GOOGLE_API_KEY"}
		}
		prompt := BuildPrompt(req.Persona, req.Input)
		for _, model := range inv.models {
			log("Attempting to use model: " + model)
			raw, err := inv.llm.Complete(ctx, model, prompt)
			if err != nil {
				log("Model " + model + " failed: " + err.Error())
				continue
			}
			text := Clean(raw)
			log("Output (" + model + "): " + preview(text, 100) + "...")
			return Result{Text: text, Model: model}, nil
		}
		log("All configured models failed. Falling back to simulation.")
	} else {
		log("Simulation mode enabled; skipping providers.")
	}

	run.MarkSimulated()
	text := Simulate(req.Role, run.Topic(), req.Input)
	log("Output: " + preview(text, 100) + "...")
	return Result{Text: text, Simulated: true}, nil
}

// CandidateModels returns primary followed by the fallbacks, in order, without
// duplicates or blanks.
func CandidateModels(primary string, fallbacks []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range append([]string{primary}, fallbacks...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// SplitModelList parses a comma or pipe separated model list.
func SplitModelList(s string) []string {
	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(s, "|", ","), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
