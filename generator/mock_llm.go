package generator

import (
	"context"
	"fmt"
)

// MockLLM is a scripted client for local debugging and tests; it never calls a provider.
// Models listed in Failing return their error; every other model answers through Reply,
// or echoes the user prompt when Reply is nil.
type MockLLM struct {
	Failing map[string]error
	Reply   func(model string, prompt Prompt) string
	Calls   []string
}

func (m *MockLLM) Complete(_ context.Context, model string, prompt Prompt) (string, error) {
	m.Calls = append(m.Calls, model)
	if err, ok := m.Failing[model]; ok {
		if err == nil {
			err = fmt.Errorf("model %s unavailable", model)
		}
		return "", err
	}
	if m.Reply != nil {
		return m.Reply(model, prompt), nil
	}
	return prompt.User, nil
}
