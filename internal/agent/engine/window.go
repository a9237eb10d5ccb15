package engine

import (
	"github.com/cloudwego/eino/schema"

	"github.com/atendai-core/server/internal/ticket"
)

// capWindow bounds the stored history at max entries, oldest first. The
// store already limits its reads; this guards callers handing in more.
func capWindow(history []ticket.Message, max int) []ticket.Message {
	if max <= 0 {
		return nil
	}
	if len(history) > max {
		return history[:max]
	}
	return history
}

// escalationFlag reports whether the directive must demand at least one
// action this invocation: the customer has sent two or more messages, or the
// window is one short of its configured bound. Recomputed every turn, never
// persisted.
func escalationFlag(window []ticket.Message, maxMessages int) bool {
	customer := 0
	for _, m := range window {
		if m.Origin == ticket.OriginCustomer {
			customer++
		}
	}
	return customer >= 2 || len(window) >= maxMessages-1
}

// promptWindow maps the stored window onto chat roles. Only text entries
// participate; agent messages become assistant turns, customer messages user
// turns.
func promptWindow(window []ticket.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(window))
	for _, m := range window {
		if m.MediaKind != ticket.MediaText {
			continue
		}
		if m.Origin == ticket.OriginAgent {
			out = append(out, schema.AssistantMessage(m.Body, nil))
		} else {
			out = append(out, schema.UserMessage(m.Body))
		}
	}
	return out
}
