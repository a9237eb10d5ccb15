package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/atendai-core/server/internal/agent/tools"
	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
)

// actionKind enumerates the business actions a conversation can imply.
type actionKind int

const (
	kindTransferQueue actionKind = iota
	kindAddTag
	kindTransferUser
	kindAddNote
	kindUnknown
)

const (
	reasonQueueNotFound = "Fila não encontrada ou já atribuída"
	reasonUserNotFound  = "Usuário não encontrado ou já atribuído"
	reasonBadArguments  = "Argumentos inválidos"
	reasonUnknownTool   = "Função desconhecida"
)

// turn accumulates the per-invocation resolution state: which kinds already
// produced a resolved action (tool calls suppress the fallback per kind) and
// the queue whose greeting is owed after the reply.
type turn struct {
	snap     *ticket.Snapshot
	ticket   *ticket.Ticket
	contact  *ticket.Contact
	audio    bool
	resolved map[actionKind]bool

	transferredQueue *ticket.Queue
}

func newTurn(snap *ticket.Snapshot, t *ticket.Ticket, c *ticket.Contact, audio bool) *turn {
	return &turn{
		snap:     snap,
		ticket:   t,
		contact:  c,
		audio:    audio,
		resolved: make(map[actionKind]bool),
	}
}

// greeting returns the transferred queue's greeting message, if any.
func (tn *turn) greeting() string {
	if tn.transferredQueue == nil {
		return ""
	}
	return strings.TrimSpace(tn.transferredQueue.GreetingMessage)
}

func kindOf(toolName string) actionKind {
	switch toolName {
	case tools.ToolTransferQueue:
		return kindTransferQueue
	case tools.ToolAddTag:
		return kindAddTag
	case tools.ToolTransferUser:
		return kindTransferUser
	default:
		return kindUnknown
	}
}

// orderedCalls sorts tool calls so the queue transfer resolves before tag
// and user actions, preserving model order within a kind.
func orderedCalls(calls []schema.ToolCall) []schema.ToolCall {
	out := make([]schema.ToolCall, len(calls))
	copy(out, calls)
	sort.SliceStable(out, func(i, j int) bool {
		return kindOf(out[i].Function.Name) < kindOf(out[j].Function.Name)
	})
	return out
}

// toolResult is the structured outcome folded back into the prompt list for
// each dispatched tool call.
type toolResult struct {
	Success bool     `json:"success"`
	Reason  string   `json:"reason,omitempty"`
	Queue   string   `json:"queue,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Note    string   `json:"note,omitempty"`
	User    string   `json:"user,omitempty"`
}

func (r toolResult) encode() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false}`
	}
	return string(b)
}

// dispatch executes one model-requested tool call against the ticketing
// collaborators. Malformed arguments or unknown entities reject only this
// candidate and report the failure back to the model; a store failure while
// committing a validated action is an error and aborts the turn.
func (e *Engine) dispatch(ctx context.Context, tn *turn, call schema.ToolCall) (string, error) {
	args := call.Function.Arguments
	switch call.Function.Name {
	case tools.ToolTransferQueue:
		var in tools.TransferQueueInput
		if err := json.Unmarshal([]byte(args), &in); err != nil {
			logx.Warn().Err(err).Str("tool", call.Function.Name).Msg("malformed tool arguments")
			return toolResult{Success: false, Reason: reasonBadArguments}.encode(), nil
		}
		q, err := e.resolveQueue(ctx, tn, in.Queue)
		if err != nil {
			return "", fmt.Errorf("commit queue transfer: %w", err)
		}
		if q == nil {
			return toolResult{Success: false, Reason: reasonQueueNotFound}.encode(), nil
		}
		return toolResult{Success: true, Queue: q.Name}.encode(), nil

	case tools.ToolAddTag:
		var in tools.AddTagInput
		if err := json.Unmarshal([]byte(args), &in); err != nil {
			logx.Warn().Err(err).Str("tool", call.Function.Name).Msg("malformed tool arguments")
			return toolResult{Success: false, Reason: reasonBadArguments}.encode(), nil
		}
		applied, err := e.resolveTags(ctx, tn, in.Tags)
		if err != nil {
			return "", fmt.Errorf("commit tag upsert: %w", err)
		}
		if _, err := e.resolveNote(ctx, tn, in.Note); err != nil {
			return "", fmt.Errorf("commit note: %w", err)
		}
		return toolResult{Success: true, Tags: applied, Note: strings.TrimSpace(in.Note)}.encode(), nil

	case tools.ToolTransferUser:
		var in tools.TransferUserInput
		if err := json.Unmarshal([]byte(args), &in); err != nil {
			logx.Warn().Err(err).Str("tool", call.Function.Name).Msg("malformed tool arguments")
			return toolResult{Success: false, Reason: reasonBadArguments}.encode(), nil
		}
		u, err := e.resolveUser(ctx, tn, in.User)
		if err != nil {
			return "", fmt.Errorf("commit user transfer: %w", err)
		}
		if u == nil {
			return toolResult{Success: false, Reason: reasonUserNotFound}.encode(), nil
		}
		return toolResult{Success: true, User: u.Name}.encode(), nil

	default:
		logx.Warn().Str("tool", call.Function.Name).Msg("model requested unknown tool")
		return toolResult{Success: false, Reason: reasonUnknownTool}.encode(), nil
	}
}

// resolveQueue validates and commits a queue transfer. A transfer to the
// ticket's current queue is a no-op and does not count as resolved.
func (e *Engine) resolveQueue(ctx context.Context, tn *turn, name string) (*ticket.Queue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	q := tn.snap.QueueByName(name)
	if q == nil || q.ID == tn.ticket.QueueID {
		return nil, nil
	}
	if err := e.store.TransferQueue(ctx, q.ID, tn.ticket, tn.contact); err != nil {
		logx.Error().Err(err).Int("ticketID", tn.ticket.ID).Str("queue", q.Name).Msg("queue transfer failed")
		return nil, err
	}
	tn.resolved[kindTransferQueue] = true
	tn.transferredQueue = q
	e.broadcastUpdate(ctx, tn.ticket)
	logx.Info().Int("ticketID", tn.ticket.ID).Str("queue", q.Name).Msg("queue transfer resolved")
	return q, nil
}

// resolveTags upserts every tag that exists in the snapshot. Ticket-tag
// associations are always written; contact-tag associations only on the
// audio path. Re-adding an existing association is a safe no-op.
func (e *Engine) resolveTags(ctx context.Context, tn *turn, names []string) ([]string, error) {
	applied := make([]string, 0, len(names))
	for _, name := range names {
		tag := tn.snap.TagByName(strings.TrimSpace(name))
		if tag == nil {
			continue
		}
		if err := e.store.UpsertTicketTag(ctx, tn.ticket.ID, tag.ID); err != nil {
			return applied, err
		}
		if tn.audio {
			if err := e.store.UpsertContactTag(ctx, tn.contact.ID, tag.ID); err != nil {
				return applied, err
			}
		}
		applied = append(applied, tag.Name)
	}
	if len(applied) > 0 {
		tn.resolved[kindAddTag] = true
		e.broadcastUpdate(ctx, tn.ticket)
	}
	return applied, nil
}

// resolveUser validates and commits a user transfer. A transfer to the
// ticket's current user is a no-op and does not count as resolved.
func (e *Engine) resolveUser(ctx context.Context, tn *turn, name string) (*ticket.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	u := tn.snap.UserByName(name)
	if u == nil || u.ID == tn.ticket.UserID {
		return nil, nil
	}
	tn.ticket.UserID = u.ID
	if err := e.store.SaveTicket(ctx, tn.ticket); err != nil {
		logx.Error().Err(err).Int("ticketID", tn.ticket.ID).Str("user", u.Name).Msg("user transfer failed")
		return nil, err
	}
	tn.resolved[kindTransferUser] = true
	e.broadcastUpdate(ctx, tn.ticket)
	logx.Info().Int("ticketID", tn.ticket.ID).Str("user", u.Name).Msg("user transfer resolved")
	return u, nil
}

// resolveNote records a note attributed to the contact with no owning user.
// Creation is unconditional whenever non-empty text is present.
func (e *Engine) resolveNote(ctx context.Context, tn *turn, note string) (bool, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return false, nil
	}
	err := e.store.CreateNote(ctx, ticket.Note{
		Note:      note,
		TicketID:  tn.ticket.ID,
		ContactID: tn.contact.ID,
		CreatedAt: e.now(),
	})
	if err != nil {
		return false, err
	}
	tn.resolved[kindAddNote] = true
	return true, nil
}

// applyFallback commits actions recovered from the model's free text. Each
// kind is consulted independently and only when no tool call already
// resolved it; results from the two sources are never merged for one kind.
func (e *Engine) applyFallback(ctx context.Context, tn *turn, text string) {
	pa := ExtractPatternActions(text)

	if !tn.resolved[kindTransferQueue] && pa.Queue != "" {
		if _, err := e.resolveQueue(ctx, tn, pa.Queue); err != nil {
			logx.Warn().Err(err).Int("ticketID", tn.ticket.ID).Msg("fallback queue transfer failed")
		}
	}
	if !tn.resolved[kindAddTag] && len(pa.Tags) > 0 {
		if _, err := e.resolveTags(ctx, tn, pa.Tags); err != nil {
			logx.Warn().Err(err).Int("ticketID", tn.ticket.ID).Msg("fallback tag upsert failed")
		}
	}
	if !tn.resolved[kindTransferUser] && pa.User != "" {
		if _, err := e.resolveUser(ctx, tn, pa.User); err != nil {
			logx.Warn().Err(err).Int("ticketID", tn.ticket.ID).Msg("fallback user transfer failed")
		}
	}
	if !tn.resolved[kindAddNote] && pa.Note != "" {
		if _, err := e.resolveNote(ctx, tn, pa.Note); err != nil {
			logx.Warn().Err(err).Int("ticketID", tn.ticket.ID).Msg("fallback note creation failed")
		}
	}
}
