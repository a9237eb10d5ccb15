package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/directive_prompt.txt
var directiveTemplate string

// FallbackName addresses the contact when no usable name survives sanitising.
const FallbackName = "Amigo(a)"

const maxNameLen = 60

// DirectiveParams carries everything the system directive is derived from.
// Entity names are snapshotted once per invocation by the caller.
type DirectiveParams struct {
	ContactName string
	Queues      []string
	Tags        []string
	Users       []string
	Escalated   bool
	BasePrompt  string
}

// SanitizeName reduces a contact display name to its first word, stripped to
// an alphanumeric token of at most 60 characters.
func SanitizeName(name string) string {
	first := strings.Fields(name)
	if len(first) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range first[0] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	return s
}

// RenderDirective renders the system directive via the Eino prompt component
// (enables prompt callbacks when composed into a larger graph).
func RenderDirective(ctx context.Context, p DirectiveParams) (string, error) {
	name := SanitizeName(p.ContactName)
	if name == "" {
		name = FallbackName
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(directiveTemplate),
	)
	vars := map[string]any{
		"Name":       name,
		"Queues":     mustJSON(p.Queues),
		"Tags":       mustJSON(p.Tags),
		"Users":      mustJSON(p.Users),
		"Escalated":  p.Escalated,
		"BasePrompt": p.BasePrompt,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("directive render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("directive render: empty result")
	}
	return msgs[0].Content, nil
}

func mustJSON(names []string) string {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "[]"
	}
	return string(b)
}
