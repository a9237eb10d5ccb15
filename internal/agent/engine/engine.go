package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/atendai-core/server/internal/agent/model"
	"github.com/atendai-core/server/internal/agent/prompts"
	"github.com/atendai-core/server/internal/agent/sessions"
	errx "github.com/atendai-core/server/internal/core/error"
	"github.com/atendai-core/server/internal/notify"
	"github.com/atendai-core/server/internal/speech"
	"github.com/atendai-core/server/internal/ticket"
	"github.com/atendai-core/server/internal/transport"
	logx "github.com/atendai-core/server/pkg/logger"
)

// Config wires the engine's collaborators. Store, Sessions and Messenger are
// required; the rest default to no-ops where that is safe.
type Config struct {
	Store       ticket.Store
	Prompts     ticket.Prompts
	Sessions    *sessions.Registry
	Messenger   transport.Messenger
	Broadcaster notify.Broadcaster
	Transcriber speech.Transcriber
	Synthesizer speech.Synthesizer
	MediaDir    string

	// Now is injectable for deterministic temp file names in tests.
	Now func() time.Time
}

// Engine resolves one conversational turn at a time: it builds the bounded
// prompt window, invokes the model, executes the implied business actions
// exactly once, and delivers the reply over the configured channel.
//
// Turns for distinct tickets may run concurrently. Turns for the same ticket
// must be serialized by the caller; the engine takes no per-ticket lock.
type Engine struct {
	store       ticket.Store
	prompts     ticket.Prompts
	sessions    *sessions.Registry
	messenger   transport.Messenger
	broadcaster notify.Broadcaster
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	mediaDir    string
	now         func() time.Time
}

func New(cfg Config) *Engine {
	e := &Engine{
		store:       cfg.Store,
		prompts:     cfg.Prompts,
		sessions:    cfg.Sessions,
		messenger:   cfg.Messenger,
		broadcaster: cfg.Broadcaster,
		transcriber: cfg.Transcriber,
		synthesizer: cfg.Synthesizer,
		mediaDir:    cfg.MediaDir,
		now:         cfg.Now,
	}
	if e.broadcaster == nil {
		e.broadcaster = notify.Noop{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// HandleMessage processes one inbound customer message through the full
// turn: context building, model invocation, action resolution and delivery.
// Configuration absence (nil settings, disabled bot, empty body) aborts the
// turn silently; model, transcription and transport failures propagate.
func (e *Engine) HandleMessage(ctx context.Context, settings *model.Settings, in model.Inbound, t *ticket.Ticket, c *ticket.Contact) error {
	if settings == nil {
		logx.Debug().Int("ticketID", tID(t)).Msg("no settings, skipping turn")
		return nil
	}
	if c == nil || c.DisableBot {
		logx.Debug().Int("ticketID", tID(t)).Msg("bot disabled for contact, skipping turn")
		return nil
	}
	isAudio := in.Kind == ticket.MediaAudio
	if isAudio && in.AudioPath == "" {
		logx.Debug().Int("ticketID", t.ID).Msg("audio message without recording, skipping turn")
		return nil
	}
	if !isAudio && strings.TrimSpace(in.Body) == "" {
		logx.Debug().Int("ticketID", t.ID).Msg("empty body, skipping turn")
		return nil
	}

	basePrompt := settings.Prompt
	if e.prompts != nil {
		override, err := e.prompts.Find(ctx, settings.Name)
		switch {
		case err == nil:
			basePrompt = override
		case errx.IsNotFound(err):
			logx.Debug().Str("name", settings.Name).Msg("no prompt override configured")
		default:
			logx.Warn().Err(err).Str("name", settings.Name).Msg("prompt override lookup failed, using configured prompt")
		}
	}

	snap, err := e.snapshot(ctx, t.CompanyID)
	if err != nil {
		return err
	}
	logx.Debug().
		Strs("queues", snap.QueueNames()).
		Strs("tags", snap.TagNames()).
		Strs("users", snap.UserNames()).
		Msg("entity snapshot")

	history, err := e.store.ListMessages(ctx, t.ID, settings.MaxMessages)
	if err != nil {
		return fmt.Errorf("list messages for ticket %d: %w", t.ID, err)
	}
	window := capWindow(history, settings.MaxMessages)
	escalated := escalationFlag(window, settings.MaxMessages)

	directive, err := prompts.RenderDirective(ctx, prompts.DirectiveParams{
		ContactName: c.Name,
		Queues:      snap.QueueNames(),
		Tags:        snap.TagNames(),
		Users:       snap.UserNames(),
		Escalated:   escalated,
		BasePrompt:  basePrompt,
	})
	if err != nil {
		return err
	}

	handle, err := e.sessions.Acquire(ctx, t.ID, sessions.Credentials{
		APIKey:      settings.APIKey,
		Model:       settings.Model,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	})
	if err != nil {
		return err
	}

	body := in.Body
	if isAudio {
		body, err = e.transcriber.Transcribe(ctx, in.AudioPath)
		if err != nil {
			return fmt.Errorf("transcribe inbound audio: %w", err)
		}
	}

	msgs := make([]*schema.Message, 0, len(window)+2)
	msgs = append(msgs, schema.SystemMessage(directive))
	msgs = append(msgs, promptWindow(window)...)
	msgs = append(msgs, schema.UserMessage(body))

	tn := newTurn(snap, t, c, isAudio)
	response, err := e.invoke(ctx, handle, msgs, tn)
	if err != nil {
		return err
	}

	// The free-text fallback only runs on the transcription path, and per
	// kind only when no tool call resolved that kind this turn.
	if isAudio {
		e.applyFallback(ctx, tn, response)
	}

	reply := Sanitize(response)
	if reply == "" {
		logx.Debug().Int("ticketID", t.ID).Msg("empty reply after sanitizing, nothing to deliver")
		return nil
	}
	return e.deliver(ctx, settings, t, c, reply, tn.greeting())
}

// invoke runs the two-call protocol: call #1 with automatic tool selection,
// synchronous dispatch of every returned tool call with results folded into
// the prompt list, and call #2 only when tools fired. Call #1's text is
// discarded in that case.
func (e *Engine) invoke(ctx context.Context, handle chatmodel.ToolCallingChatModel, msgs []*schema.Message, tn *turn) (string, error) {
	first, err := handle.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}

	calls := orderedCalls(first.ToolCalls)
	if len(calls) == 0 {
		return first.Content, nil
	}

	msgs = append(msgs, first)
	for _, call := range calls {
		result, err := e.dispatch(ctx, tn, call)
		if err != nil {
			return "", err
		}
		msgs = append(msgs, schema.ToolMessage(result, call.ID, schema.WithToolName(call.Function.Name)))
	}

	second, err := handle.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("model call after tools: %w", err)
	}
	return second.Content, nil
}

func (e *Engine) snapshot(ctx context.Context, companyID int) (*ticket.Snapshot, error) {
	queues, err := e.store.ListQueues(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	tags, err := e.store.ListTags(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	users, err := e.store.ListUsers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ticket.Snapshot{Queues: queues, Tags: tags, Users: users}, nil
}

func (e *Engine) broadcastUpdate(ctx context.Context, t *ticket.Ticket) {
	if err := e.broadcaster.TicketUpdated(ctx, t); err != nil {
		logx.Warn().Err(err).Int("ticketID", t.ID).Msg("ticket update broadcast failed")
	}
}

func tID(t *ticket.Ticket) int {
	if t == nil {
		return 0
	}
	return t.ID
}
