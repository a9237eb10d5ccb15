package engine

import (
	"regexp"
	"strings"
)

// The model is instructed never to surface internal routing, but structured
// field names still leak into replies occasionally. Sanitize strips the
// known leak shapes before anything reaches the customer.

var leakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)setor:\s*".*?"\s*`),
	regexp.MustCompile(`(?i)especialista:\s*".*?"\s*`),
	regexp.MustCompile(`(?i)tag:\s*".*?"\s*`),
	regexp.MustCompile(`(?i)tags?:\s*".*?"\s*`),
	regexp.MustCompile(`(?i)tags?:\s*\[.*?\]\s*`),
	regexp.MustCompile(`(?mi)^[\s\-:]*".*?"[\s\-:]*$`),
}

var blankRuns = regexp.MustCompile(`(\r?\n){2,}`)

// Sanitize removes leaked structural tokens from a reply, collapses runs of
// blank lines and trims surrounding whitespace. It is pure, total and
// idempotent; absence of a pattern is a no-op.
//
// Removing one leak can join its surroundings into another, so the chain
// runs to a fixpoint. Every replacement shrinks the text, so the loop
// terminates.
func Sanitize(text string) string {
	for {
		prev := text
		for _, p := range leakPatterns {
			text = p.ReplaceAllString(text, "")
		}
		text = blankRuns.ReplaceAllString(text, "\n\n")
		text = strings.TrimSpace(text)
		if text == prev {
			return text
		}
	}
}
