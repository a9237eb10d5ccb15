package repo

import (
	"context"
	"encoding/json"
	"fmt"

	errx "github.com/atendai-core/server/internal/core/error"
	"github.com/atendai-core/server/internal/notify"
	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster publishes ticket-updated events over Redis pub/sub on a
// company-scoped channel.
type RedisBroadcaster struct {
	rdb redis.Cmdable
}

func NewRedisBroadcaster(rdb redis.Cmdable) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func companyChannel(companyID int) string {
	return fmt.Sprintf("company-%d-ticket", companyID)
}

type ticketEvent struct {
	Action string         `json:"action"`
	Ticket *ticket.Ticket `json:"ticket"`
}

func (b *RedisBroadcaster) TicketUpdated(ctx context.Context, t *ticket.Ticket) error {
	payload, err := json.Marshal(ticketEvent{Action: "update", Ticket: t})
	if err != nil {
		return fmt.Errorf("marshal ticket event: %w", err)
	}
	channel := companyChannel(t.CompanyID)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		logx.Error().Err(err).Str("channel", channel).Msg("failed to publish ticket event")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ notify.Broadcaster = (*RedisBroadcaster)(nil)
