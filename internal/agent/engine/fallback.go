package engine

import (
	"regexp"
	"strings"
)

// The pattern fallback recovers actions the model announced in free text
// instead of tool calls. It only ever runs on the transcription path, and is
// deliberately isolated behind ExtractPatternActions so a stricter grammar
// could replace it without touching the resolution engine.

var (
	queueLine = regexp.MustCompile(`(?i)Fila:\s*([^\n]+)`)
	tagsLine  = regexp.MustCompile(`(?i)Tags?:\s*([^\n]+)`)
	userLine  = regexp.MustCompile(`(?i)Usu[aá]rio:\s*([^\n]+)`)
	noteLine  = regexp.MustCompile(`(?i)Observa[cç][aã]o:\s*([^\n]+)`)
)

// PatternActions are the raw, unvalidated action candidates recovered from
// reply text. Names are validated against the snapshot by the resolver,
// exactly as tool-call candidates are.
type PatternActions struct {
	Queue string
	Tags  []string
	User  string
	Note  string
}

// ExtractPatternActions scans reply text for action lines. It is pure and
// total: malformed input yields empty fields, never an error.
func ExtractPatternActions(text string) PatternActions {
	var pa PatternActions

	if m := queueLine.FindStringSubmatch(text); m != nil {
		pa.Queue = strings.TrimSpace(m[1])
	}
	if m := tagsLine.FindStringSubmatch(text); m != nil {
		for _, part := range strings.Split(m[1], ",") {
			if name := strings.TrimSpace(part); name != "" {
				pa.Tags = append(pa.Tags, name)
			}
		}
	}
	if m := userLine.FindStringSubmatch(text); m != nil {
		pa.User = strings.TrimSpace(m[1])
	}
	if m := noteLine.FindStringSubmatch(text); m != nil {
		pa.Note = strings.TrimSpace(m[1])
	}
	return pa
}
