package notify

import (
	"context"

	"github.com/atendai-core/server/internal/ticket"
)

// Broadcaster publishes ticket state changes to interested subscribers of a
// company-scoped channel.
type Broadcaster interface {
	TicketUpdated(ctx context.Context, t *ticket.Ticket) error
}

// Noop discards every event. Useful where change notification is not wired.
type Noop struct{}

func (Noop) TicketUpdated(ctx context.Context, t *ticket.Ticket) error { return nil }

var _ Broadcaster = Noop{}
