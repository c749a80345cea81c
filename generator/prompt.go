package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to the provider.
type Prompt struct {
	System string
	User   string
}

// Text flattens the prompt for providers that take a single string.
func (p Prompt) Text() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

const outputInstructions = `TASK:
Process the provided input and return ONLY the resulting content.
Focus on the substance and structure requested.

CRITICAL INSTRUCTIONS:
- Output ONLY the clean result.
- Do NOT echo the input headers, labels, or instruction prefixes (e.g., "Synthesize...", "Search Findings:", "Topic:").
- Do NOT include any introductory or concluding meta-commentary.
- Do NOT wrap the result in markdown code blocks.`

// BuildPrompt composes the role persona with the strict output-only rules.
func BuildPrompt(persona, input string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are: ")
	sb.WriteString(strings.TrimSpace(persona))
	sb.WriteString("\n\n")
	sb.WriteString(outputInstructions)

	return Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("INPUT:\n%s\n\nFINAL CONTENT:", input),
	}
}
