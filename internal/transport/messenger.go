package transport

import (
	"context"

	"github.com/atendai-core/server/internal/ticket"
)

// SentMessage describes a message the transport already delivered.
type SentMessage struct {
	ID       string
	Endpoint string
	Body     string
	Audio    bool
}

// Messenger is the conversation transport collaborator: it delivers replies
// to the customer's endpoint and records them against the ticket.
type Messenger interface {
	// SendText delivers a text message to the conversation endpoint.
	SendText(ctx context.Context, endpoint string, text string) (*SentMessage, error)

	// SendAudio delivers an audio file as a voice message.
	SendAudio(ctx context.Context, endpoint string, filePath string) (*SentMessage, error)

	// VerifyMessage records a delivered text message against the ticket.
	VerifyMessage(ctx context.Context, m *SentMessage, t *ticket.Ticket, c *ticket.Contact) error

	// VerifyMedia records a delivered media message against the ticket.
	VerifyMedia(ctx context.Context, m *SentMessage, t *ticket.Ticket, c *ticket.Contact) error
}
