package generator

import (
	"regexp"
	"strings"
)

// Labels providers tend to echo back from the prompt. Anchored at line start.
var echoedHeaderRe = regexp.MustCompile(`(?im)^(?:` + strings.Join([]string{
	`RESULT:`,
	`FINAL CONTENT:`,
	`Output:`,
	`Research Report:`,
	`Trend Report:`,
	`Synthesize.*?:`,
	`Search Findings:`,
	`Comprehensive research for.*?\.`,
	`Topic:.*?\n`,
}, "|") + `)`)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:\\w+)?\\n?(.*?)\\n?```")

// Clean strips provider artifacts from raw model output: echoed headers, a
// whole-response code fence, or a single fenced block anywhere in the text.
// Passes are repeated until nothing changes, so Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	text := raw
	for {
		// Every pass either shrinks the text or returns it untouched.
		next := cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func cleanOnce(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(echoedHeaderRe.ReplaceAllString(text, ""))

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			text = strings.TrimSpace(strings.Join(lines[1:end], "\n"))
		}
	}

	if strings.Contains(text, "```") {
		if blocks := fencedBlockRe.FindAllStringSubmatch(text, -1); len(blocks) == 1 {
			text = strings.TrimSpace(blocks[0][1])
		}
	}
	return text
}
