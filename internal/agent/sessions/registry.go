package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	logx "github.com/atendai-core/server/pkg/logger"
)

// Credentials configures the model handle built on first access for a ticket.
type Credentials struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Factory constructs a model handle from credentials.
type Factory func(ctx context.Context, cred Credentials) (model.ToolCallingChatModel, error)

// Registry caches one model handle per ticket for the life of the process.
// Handles are created lazily and never evicted; credential changes for an
// existing ticket are ignored (rotation requires a new ticket id).
type Registry struct {
	mu      sync.Mutex
	factory Factory
	handles map[int]model.ToolCallingChatModel
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		handles: make(map[int]model.ToolCallingChatModel),
	}
}

// Acquire returns the handle for the ticket, creating it on first access.
// Get-or-create is atomic per key: two concurrent first accesses for the
// same ticket observe the same handle.
func (r *Registry) Acquire(ctx context.Context, ticketID int, cred Credentials) (model.ToolCallingChatModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[ticketID]; ok {
		return h, nil
	}

	h, err := r.factory(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("create model handle for ticket %d: %w", ticketID, err)
	}
	r.handles[ticketID] = h
	logx.Debug().Int("ticketID", ticketID).Msg("model handle created")
	return h, nil
}

// Len reports how many handles are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// GeminiFactory builds production handles: a gemini chat model over its own
// genai client, with the given tools bound for automatic selection.
func GeminiFactory(toolInfos []*schema.ToolInfo) Factory {
	return func(ctx context.Context, cred Credentials) (model.ToolCallingChatModel, error) {
		clientCfg := &genai.ClientConfig{
			APIKey:  cred.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cred.BaseURL != "" {
			clientCfg.HTTPOptions.BaseURL = cred.BaseURL
		}

		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			logx.Error().Err(err).Msg("Error creating Gemini client")
			return nil, fmt.Errorf("error creating Gemini client: %w", err)
		}

		temperature := cred.Temperature
		maxTokens := cred.MaxTokens
		cm, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       cred.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			logx.Error().Err(err).Msg("Error creating chat model")
			return nil, fmt.Errorf("error creating chat model: %w", err)
		}

		if len(toolInfos) == 0 {
			return cm, nil
		}
		bound, err := cm.WithTools(toolInfos)
		if err != nil {
			logx.Error().Err(err).Msg("Failed to bind tools")
			return nil, fmt.Errorf("failed to bind tools: %w", err)
		}
		return bound, nil
	}
}
